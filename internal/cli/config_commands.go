package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/pnm-media/filmsync/internal/config"
)

// newConfigCmd groups the configuration subcommands.
func newConfigCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Show or change the filmsync configuration",
	}
	cmd.AddCommand(newConfigShowCmd())
	cmd.AddCommand(newConfigSetCmd())
	cmd.AddCommand(newConfigPathCmd())
	return cmd
}

func newConfigShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Print the effective configuration",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}

			fmt.Printf("Config file: %s\n\n", path)
			fmt.Println("[s3]")
			fmt.Printf("access_key_id     = %s\n", cfg.S3.AccessKeyID)
			fmt.Printf("secret_access_key = %s\n", maskSecret(cfg.S3.SecretAccessKey))
			fmt.Printf("region            = %s\n", cfg.S3.Region)
			fmt.Printf("endpoint_url      = %s\n", cfg.S3.EndpointURL)
			fmt.Printf("bucket            = %s\n", cfg.S3.Bucket)
			fmt.Println()
			fmt.Println("[sync]")
			fmt.Printf("target_path       = %s\n", cfg.Sync.TargetPath)
			fmt.Printf("include_mp4       = %t\n", cfg.Sync.IncludeMP4)
			fmt.Printf("method            = %s\n", cfg.Sync.Method)

			if err := cfg.Validate(); err != nil {
				fmt.Printf("\nWarning: configuration incomplete: %v\n", err)
			}
			return nil
		},
	}
}

func newConfigSetCmd() *cobra.Command {
	var (
		accessKey string
		secretKey string
		region    string
		endpoint  string
		bucket    string
		target    string
		mp4       bool
		mapMethod string
	)

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Update configuration values",
		Long: `Updates the given configuration values and writes the config file.
Only flags you pass are changed; everything else is preserved.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, path, err := loadConfig()
			if err != nil {
				return err
			}

			flags := cmd.Flags()
			if flags.Changed("access-key") {
				cfg.S3.AccessKeyID = accessKey
			}
			if flags.Changed("secret-key") {
				cfg.S3.SecretAccessKey = secretKey
			}
			if flags.Changed("region") {
				cfg.S3.Region = region
			}
			if flags.Changed("endpoint") {
				cfg.S3.EndpointURL = endpoint
			}
			if flags.Changed("bucket") {
				cfg.S3.Bucket = bucket
			}
			if flags.Changed("target") {
				cfg.Sync.TargetPath = target
			}
			if flags.Changed("include-mp4") {
				cfg.Sync.IncludeMP4 = mp4
			}
			if flags.Changed("method") {
				m := strings.ToLower(mapMethod)
				if m != config.MethodStructured && m != config.MethodPassthrough {
					return config.ErrInvalidMethod
				}
				cfg.Sync.Method = m
			}

			if err := cfg.Save(path); err != nil {
				return err
			}
			fmt.Printf("Configuration saved to %s\n", path)
			return nil
		},
	}

	cmd.Flags().StringVar(&accessKey, "access-key", "", "S3 access key ID")
	cmd.Flags().StringVar(&secretKey, "secret-key", "", "S3 secret access key")
	cmd.Flags().StringVar(&region, "region", "", "S3 region")
	cmd.Flags().StringVar(&endpoint, "endpoint", "", "S3 endpoint URL (for non-AWS stores)")
	cmd.Flags().StringVar(&bucket, "bucket", "", "Bucket to sync from")
	cmd.Flags().StringVar(&target, "target", "", "Local target directory")
	cmd.Flags().BoolVar(&mp4, "include-mp4", true, "Include .mp4 objects")
	cmd.Flags().StringVar(&mapMethod, "method", "", "Mapping method: structured or passthrough")

	return cmd
}

func newConfigPathCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Print the config file path",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := cfgFile
			if path == "" {
				var err error
				path, err = config.DefaultPath()
				if err != nil {
					return err
				}
			}
			fmt.Println(path)
			return nil
		},
	}
}

// maskSecret hides all but the last four characters of a credential.
func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return strings.Repeat("*", len(s))
	}
	return strings.Repeat("*", len(s)-4) + s[len(s)-4:]
}
