package cmd

import (
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/spf13/cobra"

	"github.com/harlequix/parcheck/detection"
	"github.com/harlequix/parcheck/injection"
)

// ErrDetected makes verify exit non-zero when the control info mismatches.
var ErrDetected = errors.New("error detected")

var generateCmd = &cobra.Command{
	Use:   "generate METHOD MESSAGE",
	Short: "Print the control info of a message",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		control, err := detection.Generate(args[0], args[1], detectOpts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), control)
		return nil
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify METHOD MESSAGE CONTROL_INFO",
	Short: "Check a message against its control info",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		d, err := detection.Lookup(args[0], detectOpts)
		if err != nil {
			return err
		}
		computed, intact, err := detection.Check(d, args[1], args[2])
		if err != nil {
			return err
		}
		if !intact {
			return fmt.Errorf("%w: computed %q, received %q", ErrDetected, computed, args[2])
		}
		fmt.Fprintln(cmd.OutOrStdout(), "no error detected")
		return nil
	},
}

var injectCmd = &cobra.Command{
	Use:   "inject TYPE MESSAGE",
	Short: "Apply an error injection to a message",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		seed, _ := cmd.Flags().GetInt64("seed")
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		out, err := injection.Apply(rand.New(rand.NewSource(seed)), args[0], args[1], injectOpts)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), out)
		return nil
	},
}

var methodsCmd = &cobra.Command{
	Use:   "methods",
	Short: "List detection methods and injection types",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, "Detection methods:")
		for i, m := range detection.Methods() {
			fmt.Fprintf(out, "  %d. %s\n", i+1, m)
		}
		fmt.Fprintln(out, "Injection types:")
		for i, t := range injection.Types() {
			fmt.Fprintf(out, "  %d. %s\n", i+1, t)
		}
	},
}

func init() {
	injectCmd.Flags().Int64("seed", 0, "seed of the corruption source (0 picks one)")
	rootCmd.AddCommand(generateCmd, verifyCmd, injectCmd, methodsCmd)
}
