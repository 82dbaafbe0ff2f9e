package main

import (
	"strconv"
	"strings"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/Nackloose/perturbarium/internal/config"
	"github.com/Nackloose/perturbarium/internal/logging"
	"github.com/Nackloose/perturbarium/sinescramble"
)

func newCipherCmd(configPath, logLevel *string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cipher",
		Short: "encrypt or decrypt a file with the SineScramble cipher",
	}
	cmd.AddCommand(
		newCipherTransformCmd(configPath, logLevel, "encrypt", "encrypt a file"),
		newCipherTransformCmd(configPath, logLevel, "decrypt", "decrypt a file"),
	)
	return cmd
}

func newCipherTransformCmd(configPath, logLevel *string, use, short string) *cobra.Command {
	var keyCSV string
	var modeName string
	var src, dst string

	cmd := &cobra.Command{
		Use:   use + " --key 1.5,2.5,3.5 --in src --out dst",
		Short: short,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)
			if err != nil {
				return err
			}

			key, err := parseKeyCSV(keyCSV)
			if err != nil {
				return err
			}

			if modeName != "" {
				cfg.Cipher.Mode = modeName
			}
			mode, err := cfg.Cipher.CipherMode()
			if err != nil {
				return err
			}

			logger, err := logging.New(*logLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			c, err := sinescramble.NewWithParams(key, mode, cfg.Cipher.Params())
			if err != nil {
				return err
			}
			c.Logger = logger

			if use == "encrypt" {
				return errors.Wrap(c.EncryptFile(src, dst), "cipher: encrypt failed")
			}
			return errors.Wrap(c.DecryptFile(src, dst), "cipher: decrypt failed")
		},
	}

	cmd.Flags().StringVar(&keyCSV, "key", "", "comma-separated key components, e.g. 1.5,2.5,3.5 (required)")
	cmd.Flags().StringVar(&modeName, "mode", "", "cipher mode: multi_round or segmented (defaults to config)")
	cmd.Flags().StringVar(&src, "in", "", "source file path (required)")
	cmd.Flags().StringVar(&dst, "out", "", "destination file path (required)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func parseKeyCSV(csv string) ([]float64, error) {
	parts := strings.Split(csv, ",")
	key := make([]float64, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p == "" {
			continue
		}
		v, err := strconv.ParseFloat(p, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "cipher: invalid key component %q", p)
		}
		key = append(key, v)
	}
	if len(key) == 0 {
		return nil, errors.New("cipher: --key must name at least one component")
	}
	return key, nil
}
