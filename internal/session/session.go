// Package session holds the client-local state of one connected role
// view: the pending cart, the authenticated flag, and the table binding.
// Nothing here is replicated; a refresh rebuilds it all from the store.
package session

import (
	"net/url"
	"strconv"
	"sync"

	"github.com/hnquoc/tableserve/internal/checkin"
	"github.com/hnquoc/tableserve/internal/models"
)

type Session struct {
	mu            sync.Mutex
	role          string
	cart          models.Cart
	authenticated bool
}

func New(role string) *Session {
	return &Session{role: role}
}

func (s *Session) Role() string {
	return s.role
}

// Cart returns a copy of the pending cart.
func (s *Session) Cart() models.Cart {
	s.mu.Lock()
	defer s.mu.Unlock()
	cart := s.cart
	cart.Lines = append([]models.CartLine(nil), s.cart.Lines...)
	return cart
}

func (s *Session) AddLine(line models.CartLine) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.AddLine(line)
}

func (s *Session) RemoveLine(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.RemoveLine(i)
}

func (s *Session) SetNote(note string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Note = note
}

// BindTable records a successful check-in. For the customer role this is
// the only sanctioned way the table number becomes populated; the ordering
// surface deliberately has no manual entry.
func (s *Session) BindTable(result checkin.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.BranchID = result.Branch.ID
	s.cart.TableNumber = result.Table
}

// OverrideTable binds a branch and table directly. Admin-only path.
func (s *Session) OverrideTable(branchID string, table int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.BranchID = branchID
	s.cart.TableNumber = table
}

// ConsumeTableParams applies the branchId/table query parameters a printed
// table QR URL carries, once, and returns the values with those keys
// stripped so the caller can clean the address.
func (s *Session) ConsumeTableParams(values url.Values) url.Values {
	branchID := values.Get("branchId")
	tableRaw := values.Get("table")
	if branchID != "" && tableRaw != "" {
		if table, err := strconv.Atoi(tableRaw); err == nil && table > 0 {
			s.OverrideTable(branchID, table)
		}
	}

	cleaned := url.Values{}
	for k, v := range values {
		if k == "branchId" || k == "table" {
			continue
		}
		cleaned[k] = v
	}
	return cleaned
}

// ClearCart drops the pending lines after submission or abandonment.
func (s *Session) ClearCart() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

// Login reproduces the platform's flat credential check: a plain equality
// match against the replicated admin records. No tokens, no hashing.
func (s *Session) Login(admins []models.Admin, username, password string) bool {
	for _, a := range admins {
		if a.Username == username && a.Password == password {
			s.mu.Lock()
			s.authenticated = true
			s.mu.Unlock()
			return true
		}
	}
	return false
}

func (s *Session) Authenticated() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.authenticated
}

func (s *Session) Logout() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.authenticated = false
}
