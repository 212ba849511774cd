package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd is the base command when editsessiondemo is called without a
// subcommand.
var rootCmd = &cobra.Command{
	Use:     "editsessiondemo",
	Short:   "Exercise the AI edit session pipeline against a real directory",
	Version: "0.1.0",
}

// Execute runs rootCmd; each subcommand registers itself on rootCmd in its
// own init function. Called once by main.main.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default $HOME/.editsessiondemo.yaml)")
	rootCmd.PersistentFlags().String("workspace", ".", "workspace root the session's files are read from and written to")
	rootCmd.PersistentFlags().Int("history-limit", 50, "bound on the number of transactions the session retains for undo/redo")

	viper.BindPFlag("workspace", rootCmd.PersistentFlags().Lookup("workspace"))
	viper.BindPFlag("history-limit", rootCmd.PersistentFlags().Lookup("history-limit"))
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		cobra.CheckErr(err)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".editsessiondemo")
	}

	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Println("using config file:", viper.ConfigFileUsed())
	}
}
