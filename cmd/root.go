package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "tableserve",
	Short: "Multi-role restaurant ordering platform core",
	Long: `tableserve runs one client session of a QR table-ordering platform:
a customer ordering surface, a kitchen display or an admin console, all
sharing one order collection replicated through a realtime document store.`,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./tableserve.yaml)")

	rootCmd.PersistentFlags().String("store-backend", "memory", "Store backend: memory or firebase")
	rootCmd.PersistentFlags().String("firebase-url", "", "Firebase Realtime Database base URL")
	rootCmd.PersistentFlags().String("firebase-token", "", "Firebase database auth token")

	viper.BindPFlag("store_backend", rootCmd.PersistentFlags().Lookup("store-backend"))
	viper.BindPFlag("firebase_url", rootCmd.PersistentFlags().Lookup("firebase-url"))
	viper.BindPFlag("firebase_token", rootCmd.PersistentFlags().Lookup("firebase-token"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.AddConfigPath(".")
		viper.SetConfigType("yaml")
		viper.SetConfigName("tableserve")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
