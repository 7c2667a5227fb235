package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"time"

	"gourmet-ordering/config"
	"gourmet-ordering/menu-svc/internal/domain"
	"gourmet-ordering/menu-svc/internal/normalizer"
	"gourmet-ordering/menu-svc/internal/storage"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const defaultProxyURL = "http://localhost:8080/api/data"

func newRootCmd(v *viper.Viper) *cobra.Command {
	root := &cobra.Command{
		Use:           "menuctl",
		Short:         "Inspect the POS menu feed",
		Long:          `menuctl runs the menu normalizer outside of menu-svc, against a saved POS payload or the live /api/data proxy.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().String("nested-category-id", "", "category id that uses the nested layout (structural detection when empty)")
	root.PersistentFlags().String("url", defaultProxyURL, "POS proxy URL")
	root.PersistentFlags().Bool("soft", false, "print an empty menu instead of failing")
	root.PersistentFlags().String("log-level", "warn", "log level")
	root.PersistentFlags().Duration("timeout", 30*time.Second, "fetch timeout")

	v.BindPFlags(root.PersistentFlags())
	v.BindEnv("nested-category-id", "MENU_NESTED_CATEGORY_ID")
	v.BindEnv("url", "POS_PROXY_URL")
	v.BindEnv("log-level", "LOG_LEVEL")

	root.AddCommand(newNormalizeCmd(v), newFetchCmd(v))
	return root
}

func newNormalizeCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "normalize [file|-]",
		Short: "Normalize a saved POS payload",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := "-"
			if len(args) == 1 {
				path = args[0]
			}
			raw, err := readPayload(cmd.InOrStdin(), path)
			if err != nil {
				return err
			}
			return run(cmd, v, bytesSource(raw))
		},
	}
}

func newFetchCmd(v *viper.Viper) *cobra.Command {
	return &cobra.Command{
		Use:   "fetch",
		Short: "Fetch the menu through the POS proxy and normalize it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			client := &http.Client{Timeout: v.GetDuration("timeout")}
			return run(cmd, v, storage.NewPOSSource(v.GetString("url"), client))
		},
	}
}

func run(cmd *cobra.Command, v *viper.Viper, src normalizer.Fetcher) error {
	log := config.NewLogger("menuctl", v.GetString("log-level"))
	log.Out = cmd.ErrOrStderr()

	n := normalizer.New(v.GetString("nested-category-id"), log)
	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}

	var categories []domain.Category
	if v.GetBool("soft") {
		categories = n.FetchCategories(ctx, src)
	} else {
		raw, err := src.Fetch(ctx)
		if err != nil {
			return fmt.Errorf("fetch menu: %w", err)
		}
		categories, err = n.Parse(raw)
		if err != nil {
			return fmt.Errorf("parse menu: %w", err)
		}
	}

	log.WithFields(logrus.Fields{"categories": len(categories)}).Info("menu normalized")

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(categories)
}

func readPayload(stdin io.Reader, path string) ([]byte, error) {
	if path == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(path)
}

type bytesSource []byte

func (b bytesSource) Fetch(context.Context) ([]byte, error) {
	return b, nil
}
