package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/abhisek/fjala/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the practice API over HTTP",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		addr := e.cfg.Addr()
		if a, _ := cmd.Flags().GetString("addr"); a != "" {
			addr = a
		}
		useLLM, _ := cmd.Flags().GetBool("llm-tips")

		srv := server.New(server.Deps{
			Content:           e.store.ContentRepo(),
			Progress:          e.progress(),
			Events:            e.store.EventRepo(),
			Tips:              e.tipSource(ctx, useLLM || e.cfg.Practice.LLMTips),
			Rules:             e.cfg.Rules(),
			Dialect:           e.cfg.Dialect(),
			RequestsPerSecond: e.cfg.Server.RequestsPerSecond,
			SessionTTL:        e.cfg.Server.SessionTTL,
			Logger:            e.log,
			Rand:              newRand(),
		})

		e.log.WithFields(logrus.Fields{"addr": addr, "driver": e.cfg.DB.Driver}).Debug("starting server")
		if err := srv.Run(ctx, addr); err != nil {
			return fmt.Errorf("serve: %w", err)
		}
		return nil
	},
}

func init() {
	serveCmd.Flags().String("addr", "", "Listen address (overrides server.host and server.port)")
	serveCmd.Flags().Bool("llm-tips", false, "Serve generated tips when an LLM is configured")
}
