package main

import (
	"fmt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/Nackloose/perturbarium/internal/config"
	"github.com/Nackloose/perturbarium/internal/logging"
	"github.com/Nackloose/perturbarium/licensee"
)

func newLicenseCmd(configPath, logLevel *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "license",
		Short: "generate and validate Licensee license keys",
	}
	cmd.AddCommand(
		newLicenseKeygenCmd(configPath),
		newLicenseGenerateCmd(configPath, logLevel),
		newLicenseValidateCmd(configPath, logLevel),
	)
	return cmd
}

func newLicenseKeygenCmd(configPath *string) *cobra.Command {
	var bits int
	cmd := &cobra.Command{
		Use:   "keygen",
		Short: "generate a new RSA key pair and write it to the configured PEM paths",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			priv, err := licensee.GenerateKeyPair(bits)
			if err != nil {
				return err
			}
			if err := licensee.SavePrivateKey(priv, cfg.Licensee.PrivateKeyPath); err != nil {
				return err
			}
			if err := licensee.SavePublicKey(&priv.PublicKey, cfg.Licensee.PublicKeyPath); err != nil {
				return err
			}
			fmt.Printf("wrote %s and %s\n", cfg.Licensee.PrivateKeyPath, cfg.Licensee.PublicKeyPath)
			return nil
		},
	}
	cmd.Flags().IntVar(&bits, "bits", 2048, "RSA modulus size in bits")
	return cmd
}

func newLicenseGenerateCmd(configPath, logLevel *string) *cobra.Command {
	var licensePlan, keyHolderGroup, versionLock int
	var fixedSwapParam float64
	var durationDays int
	var uniqueLicenseID int64
	var includeSwapParam bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "generate a signed license key",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			priv, err := licensee.LoadPrivateKey(cfg.Licensee.PrivateKeyPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(*logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			if durationDays <= 0 {
				durationDays = int(cfg.Licensee.DurationDays)
			}
			if versionLock < 0 {
				versionLock = int(cfg.Licensee.VersionLock)
			}
			if keyHolderGroup < 0 {
				keyHolderGroup = int(cfg.Licensee.KeyHolderGroup)
			}

			key, err := licensee.Generate(licensee.GenerateOptions{
				PrivateKey:           priv,
				LicensePlan:          uint8(licensePlan),
				DurationDays:         uint16(durationDays),
				KeyHolderGroup:       uint8(keyHolderGroup),
				UniqueLicenseID:      uint32(uniqueLicenseID),
				VersionLock:          uint8(versionLock),
				UseIncludedSwapParam: includeSwapParam,
				FixedSwapParam:       fixedSwapParam,
				Logger:               logger,
			})
			if err != nil {
				return errors.Wrap(err, "license: generate failed")
			}
			fmt.Println(key)
			return nil
		},
	}

	cmd.Flags().IntVar(&licensePlan, "plan", 0, "license_plan field (0-15)")
	cmd.Flags().IntVar(&durationDays, "duration-days", 0, "duration_days field; defaults to config")
	cmd.Flags().IntVar(&keyHolderGroup, "key-holder-group", -1, "key_holder_group field (0-255); defaults to config")
	cmd.Flags().Int64Var(&uniqueLicenseID, "license-id", 0, "unique_license_id field")
	cmd.Flags().IntVar(&versionLock, "version-lock", -1, "version_lock field; 0 disables the check; defaults to config")
	cmd.Flags().Float64Var(&fixedSwapParam, "swap-param", 0, "swap_param in [0,1] used to permute and/or embed in the key")
	cmd.Flags().BoolVar(&includeSwapParam, "include-swap-param", true, "embed swap_param in the payload (mode_flag=1) so validators can recover it without a shared secret")
	return cmd
}

func newLicenseValidateCmd(configPath, logLevel *string) *cobra.Command {
	var key string
	var currentAppVersion int
	var hardcodedSwapParam float64
	var useHardcoded bool

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "validate a license key",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}
			pub, err := licensee.LoadPublicKey(cfg.Licensee.PublicKeyPath)
			if err != nil {
				return err
			}
			logger, err := logging.New(*logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			opts := licensee.ValidateOptions{
				PublicKey:         pub,
				KeyString:         key,
				CurrentAppVersion: uint8(currentAppVersion),
				Logger:            logger,
			}
			if useHardcoded {
				swap := hardcodedSwapParam
				opts.HardcodedSwapParam = &swap
			}

			result, err := licensee.Validate(opts)
			if err != nil {
				return errors.Wrap(err, "license: validation failed")
			}

			fmt.Printf("license_plan: %d\n", result.Payload.LicensePlan)
			fmt.Printf("key_holder_group: %d\n", result.Payload.KeyHolderGroup)
			fmt.Printf("unique_license_id: %d\n", result.Payload.UniqueLicenseID)
			fmt.Printf("issued_at: %s\n", result.IssuedAt.Format("2006-01-02"))
			fmt.Printf("expires_at: %s\n", result.ExpiresAt.Format("2006-01-02"))
			return nil
		},
	}

	cmd.Flags().StringVar(&key, "key", "", "license key string (required)")
	cmd.Flags().IntVar(&currentAppVersion, "app-version", 0, "host application version for version_lock comparison")
	cmd.Flags().Float64Var(&hardcodedSwapParam, "swap-param", 0, "out-of-band swap parameter in [0,1] for mode_flag=0 keys")
	cmd.Flags().BoolVar(&useHardcoded, "hardcoded-swap-param", false, "use --swap-param directly instead of brute-forcing the embedded field")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}
