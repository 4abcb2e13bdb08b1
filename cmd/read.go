package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/harlequix/parcheck/channel"
	"github.com/harlequix/parcheck/transport"
)

var receiveCmd = &cobra.Command{
	Use:   "receive",
	Short: "Receive packets and check their control info",
	RunE:  receive,
}

func init() {
	receiveCmd.Flags().String("listen", "", "listen address (default from config)")
	rootCmd.AddCommand(receiveCmd)
}

func receive(cmd *cobra.Command, args []string) error {
	listen, _ := cmd.Flags().GetString("listen")
	if listen == "" {
		listen = conf.ReceiverAddr
	}
	ln, err := transport.Listen(listen, transportConfig())
	if err != nil {
		return err
	}
	defer ln.Close()

	ctx, cancel := interruptible()
	defer cancel()
	receiver := channel.NewReceiver(detectOpts, 16)
	go func() {
		out := cmd.OutOrStdout()
		for {
			select {
			case report := <-receiver.Reports:
				fmt.Fprintf(out, "\nData:         %s\nMethod:       %s\nControl Info: %s\nComputed:     %s\nStatus:       %s\n",
					report.Packet.Data, report.Packet.Method, report.Packet.ControlInfo, report.Computed, status(report))
			case <-ctx.Done():
				return
			}
		}
	}()
	return ln.Serve(ctx, receiver.Handle)
}

func status(report *channel.Report) string {
	switch {
	case report.Err != nil:
		return "UNCHECKED (" + report.Err.Error() + ")"
	case report.Intact:
		return "NO ERROR DETECTED"
	default:
		return "ERROR DETECTED"
	}
}
