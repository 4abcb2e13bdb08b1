package cmd

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/spf13/cobra"

	"github.com/harlequix/parcheck/api"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the detection and injection engines over HTTP",
	RunE:  serve,
}

func init() {
	serveCmd.Flags().String("addr", "", "listen address (default from config)")
	serveCmd.Flags().StringSlice("allow-origin", nil, "CORS origins (default all)")
	rootCmd.AddCommand(serveCmd)
}

func serve(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("addr")
	if addr == "" {
		addr = conf.APIAddr
	}
	origins, _ := cmd.Flags().GetStringSlice("allow-origin")
	router := api.NewRouter(api.NewHandler(detectOpts, injectOpts, conf.Seed), origins)
	srv := &http.Server{Addr: addr, Handler: router}

	ctx, cancel := interruptible()
	defer cancel()
	go func() {
		<-ctx.Done()
		shutdown, done := context.WithTimeout(context.Background(), 5*time.Second)
		defer done()
		srv.Shutdown(shutdown)
	}()
	logger.WithField("addr", addr).Info("serving api")
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
