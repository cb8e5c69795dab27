package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/armbian/targetgen/internal/utils"
	"github.com/armbian/targetgen/pkg/inventory"
	"github.com/armbian/targetgen/pkg/manifest"
	"github.com/armbian/targetgen/pkg/targets"

	homedir "github.com/mitchellh/go-homedir"
	"github.com/spf13/viper"
)

var cfgFile string

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "targetgen",
	Short: "Generates Armbian release-target manifests from a build inventory.",
	Long: `targetgen classifies every board of an image-info.json build inventory and
writes the release-target manifests (apps, standard-support, nightly,
community) together with the exposed.map download patterns.`,
	CompletionOptions: cobra.CompletionOptions{
		DisableDefaultCmd: true,
	},
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.targetgen.yaml)")

	// Global flags
	rootCmd.PersistentFlags().StringP("proxy", "", "", "HTTP proxy for remote inventory downloads (example: http://127.0.0.1:8080)")
	rootCmd.PersistentFlags().StringP("loglevel", "l", "info", "Set log level. Available: debug, info, warn, error, fatal")

	viper.SetDefault("release.debian", manifest.DefaultReleases.Debian)
	viper.SetDefault("release.ubuntu", manifest.DefaultReleases.Ubuntu)
	viper.SetDefault("release.nightly", manifest.DefaultReleases.Nightly)
	viper.SetDefault("release.kali", manifest.DefaultReleases.Kali)
	viper.SetDefault("paths.release_targets", "")
	viper.SetDefault("fetch.retries", inventory.DefaultFetchRetries)
	viper.SetDefault("fetch.timeout", inventory.DefaultFetchTimeout)
}

// initConfig reads in config file and ENV variables if set.
func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := homedir.Dir()
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		viper.AddConfigPath(home)
		viper.SetConfigName(".targetgen")
		viper.SetConfigType("yaml")
	}

	viper.SetEnvPrefix("targetgen")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	levelString, _ := rootCmd.PersistentFlags().GetString("loglevel")
	if err := utils.SetLogLevel(levelString); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			utils.Log.Warnf("Could not read config file: %v", err)
		}
	} else {
		utils.Log.Debugf("Using config file %s", viper.ConfigFileUsed())
	}
}

// searchDirs returns the extension map fallbacks after the output directory:
// the configured release-targets directory, then the executable's directory.
func searchDirs() []string {
	var dirs []string
	if dir := viper.GetString("paths.release_targets"); dir != "" {
		dirs = append(dirs, dir)
	}
	if exe, err := os.Executable(); err == nil {
		dirs = append(dirs, filepath.Dir(exe))
	}
	return dirs
}

// buildOptions maps the configuration onto a generation pass.
func buildOptions(inventoryPath, outputDir string) targets.Options {
	proxy, _ := rootCmd.PersistentFlags().GetString("proxy")
	return targets.Options{
		Inventory:  inventoryPath,
		OutputDir:  outputDir,
		SearchDirs: searchDirs(),
		Releases: manifest.Releases{
			Debian:  viper.GetString("release.debian"),
			Ubuntu:  viper.GetString("release.ubuntu"),
			Nightly: viper.GetString("release.nightly"),
			Kali:    viper.GetString("release.kali"),
		},
		Fetch: inventory.FetchOptions{
			Retries: viper.GetInt("fetch.retries"),
			Timeout: viper.GetDuration("fetch.timeout"),
			Proxy:   proxy,
		},
	}
}
