package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harlequix/parcheck/channel"
	"github.com/harlequix/parcheck/detection"
	"github.com/harlequix/parcheck/rtt"
)

var sendMethod string

var sendCmd = &cobra.Command{
	Use:   "send [message]",
	Short: "Send messages with control info to the relay",
	Long: `Connects to the relay and sends each message together with the control
info of the selected detection method. Without a message argument the
messages are read from stdin, one per line; on a terminal the method is
asked for every message.`,
	RunE: send,
}

func init() {
	sendCmd.Flags().StringVarP(&sendMethod, "method", "m", "", "detection method (PARITY, 2D_PARITY, CRC, HAMMING, CHECKSUM)")
	sendCmd.Flags().String("relay", "", "relay address (default from config)")
	rootCmd.AddCommand(sendCmd)
}

func send(cmd *cobra.Command, args []string) error {
	addr, _ := cmd.Flags().GetString("relay")
	if addr == "" {
		addr = conf.RelayAddr
	}
	ctx, cancel := interruptible()
	defer cancel()

	sender := channel.NewSender(addr, transportConfig(), detectOpts)
	sender.RTT = rtt.NewRTTManager(ctx)
	if err := sender.Connect(ctx); err != nil {
		return err
	}
	defer sender.Close()

	if len(args) > 0 {
		method := sendMethod
		if method == "" {
			method = string(detection.CRC)
		}
		return sendOne(ctx, sender, cmd.OutOrStdout(), method, strings.Join(args, " "))
	}
	in := bufio.NewReader(os.Stdin)
	if interactive() {
		return sendInteractive(ctx, sender, in, cmd.OutOrStdout())
	}
	if sendMethod == "" {
		return fmt.Errorf("--method is required when reading messages from a pipe")
	}
	for {
		line, err := in.ReadString('\n')
		line = strings.TrimRight(line, "\r\n")
		if line != "" {
			if err := sendOne(ctx, sender, cmd.OutOrStdout(), sendMethod, line); err != nil {
				return err
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func sendInteractive(ctx context.Context, sender *channel.Sender, in *bufio.Reader, out io.Writer) error {
	methods := make([]string, 0, len(detection.Methods()))
	for _, m := range detection.Methods() {
		methods = append(methods, string(m))
	}
	for {
		data, err := prompt(in, out, "\nEnter data to send (or 'quit' to exit): ")
		if err == io.EOF || strings.EqualFold(data, "quit") {
			return nil
		}
		if err != nil {
			return err
		}
		if data == "" {
			fmt.Fprintln(out, "Data cannot be empty!")
			continue
		}
		method := sendMethod
		if method == "" {
			var ok bool
			method, ok, err = menu(in, out, "Select Error Detection Method", methods, 0)
			if err != nil {
				return err
			}
			if !ok {
				fmt.Fprintln(out, "Invalid method selection!")
				continue
			}
		}
		if err := sendOne(ctx, sender, out, method, data); err != nil {
			fmt.Fprintf(out, "Failed to send packet: %v\n", err)
		}
	}
}

func sendOne(ctx context.Context, sender *channel.Sender, out io.Writer, method, data string) error {
	p, err := sender.Send(ctx, method, data)
	if err != nil {
		return err
	}
	fmt.Fprintf(out, "Data:         %s\nMethod:       %s\nControl Info: %s\n", p.Data, p.Method, p.ControlInfo)
	if sender.RTT != nil {
		fmt.Fprintf(out, "RTT:          %v\n", sender.RTT.GetMeasurement())
	}
	return nil
}
