package cmd

import (
	"bufio"
	"fmt"
	"math/rand"
	"os"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/harlequix/parcheck/channel"
	"github.com/harlequix/parcheck/injection"
	"github.com/harlequix/parcheck/protocol"
	"github.com/harlequix/parcheck/transport"
)

var relayInjection string

var relayCmd = &cobra.Command{
	Use:   "relay",
	Short: "Corrupt packets from the sender and forward them to the receiver",
	Long: `Listens for the sender, applies an error injection to the data of every
packet and forwards it, with method and control info unchanged, to the
receiver. Without --injection the injection is asked for every packet on a
terminal, and BIT_FLIP is used otherwise.`,
	RunE: relay,
}

func init() {
	relayCmd.Flags().StringVarP(&relayInjection, "injection", "i", "", "injection type (BIT_FLIP, CHAR_SUBSTITUTION, ..., NO_ERROR)")
	relayCmd.Flags().String("listen", "", "listen address (default from config)")
	relayCmd.Flags().String("forward", "", "receiver address (default from config)")
	relayCmd.Flags().Int64("seed", 0, "seed of the corruption source (0 picks one)")
	rootCmd.AddCommand(relayCmd)
}

func relay(cmd *cobra.Command, args []string) error {
	listen, _ := cmd.Flags().GetString("listen")
	if listen == "" {
		listen = conf.RelayAddr
	}
	forward, _ := cmd.Flags().GetString("forward")
	if forward == "" {
		forward = conf.ReceiverAddr
	}
	seed, _ := cmd.Flags().GetInt64("seed")
	if seed == 0 {
		seed = conf.Seed
	}
	if seed == 0 {
		seed = time.Now().UnixNano()
	}

	chooser, err := relayChooser()
	if err != nil {
		return err
	}
	r := channel.NewRelay(channel.ForwardTo(forward, transportConfig()), chooser, injectOpts, rand.New(rand.NewSource(seed)))

	ln, err := transport.Listen(listen, transportConfig())
	if err != nil {
		return err
	}
	defer ln.Close()
	logger.WithField("listen", ln.Addr().String()).WithField("forward", forward).WithField("seed", seed).Info("relay ready")

	ctx, cancel := interruptible()
	defer cancel()
	return ln.Serve(ctx, r.Handle)
}

func relayChooser() (channel.Chooser, error) {
	if relayInjection != "" {
		t, err := injection.ParseType(relayInjection)
		if err != nil {
			return nil, err
		}
		return channel.Fixed(t), nil
	}
	if !interactive() {
		return channel.Fixed(injection.BitFlip), nil
	}
	types := make([]string, 0, len(injection.Types()))
	for _, t := range injection.Types() {
		types = append(types, string(t))
	}
	var mu sync.Mutex
	in := bufio.NewReader(os.Stdin)
	return func(p *protocol.Packet) injection.Type {
		mu.Lock()
		defer mu.Unlock()
		fmt.Printf("\nReceived: %s\n", p)
		choice, ok, err := menu(in, os.Stdout, "Select Error Injection Method", types, 1)
		if err != nil || !ok {
			fmt.Println("Invalid choice, using BIT_FLIP")
			return injection.BitFlip
		}
		return injection.Type(choice)
	}, nil
}
