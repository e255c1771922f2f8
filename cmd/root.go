package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var rootCmd = &cobra.Command{
	Use:   "cutover",
	Short: "Release-metadata synchronization pipeline",
	Long: "Cutover derives the build code from the project manifest, regenerates the\n" +
		"changelog, projects it into the store listing and metainfo document, patches\n" +
		"the build descriptor, and stages the touched files for commit.",
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default .cutover.yaml)")
	rootCmd.PersistentFlags().StringP("dir", "C", ".", "project directory")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}

func initConfig() {
	if cfgFile, _ := rootCmd.Flags().GetString("config"); cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName(".cutover")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")
		if dir, _ := rootCmd.Flags().GetString("dir"); dir != "" && dir != "." {
			viper.AddConfigPath(dir)
		}
	}

	viper.SetEnvPrefix("CUTOVER")
	viper.AutomaticEnv()

	// It's fine if no config file is found; we use defaults.
	_ = viper.ReadInConfig()
}
