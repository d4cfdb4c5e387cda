package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/kapitanov/chip8cpu/internal/scenario"
	"github.com/kapitanov/chip8cpu/internal/vm"
	"github.com/spf13/cobra"
)

var errExpectation = errors.New("unexpected result")

type options struct {
	scenario string
	at       uint16
	pc       uint16
	regs     []string
	maxSteps uint64
	verbose  bool
}

func main() {
	cmd := newCommand(os.Stdout)

	cmd.SetArgs(os.Args[1:])
	if err := cmd.Execute(); err != nil {
		slog.Error("fatal error", "err", err)
		os.Exit(1)
	}
}

func newCommand(out io.Writer) *cobra.Command {
	cmd := &cobra.Command{
		Use:           fmt.Sprintf("%s [PATH_TO_ROM_FILE]", filepath.Base(os.Args[0])),
		Short:         "Run a program on the virtual CPU and print its registers",
		Args:          cobra.MaximumNArgs(1),
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(out)

	var opts options
	cmd.Flags().StringVarP(&opts.scenario, "scenario", "s", "", fmt.Sprintf("run a built-in scenario (%s)", strings.Join(scenario.Names(), ", ")))
	cmd.Flags().Uint16Var(&opts.at, "at", 0, "load address for the ROM file")
	cmd.Flags().Uint16Var(&opts.pc, "pc", 0, "initial program counter")
	cmd.Flags().StringArrayVarP(&opts.regs, "reg", "r", nil, "initial register value as vX=VALUE (X is a hex digit), may be repeated")
	cmd.Flags().Uint64Var(&opts.maxSteps, "max-steps", 0, "abort after this many instructions (0 = unlimited)")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose logging")

	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		loggerOpts := &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}
		if opts.verbose {
			loggerOpts.Level = slog.LevelDebug
		}

		slog.SetDefault(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), loggerOpts)))

		return run(cmd.OutOrStdout(), opts, args)
	}

	return cmd
}

func run(out io.Writer, opts options, args []string) error {
	machine := vm.New(vm.WithStepLimit(opts.maxSteps))

	var expect *uint8
	switch {
	case opts.scenario != "" && len(args) > 0:
		return errors.New("--scenario and a ROM file are mutually exclusive")

	case opts.scenario != "":
		s, ok := scenario.Lookup(opts.scenario)
		if !ok {
			return fmt.Errorf("unknown scenario %q", opts.scenario)
		}
		if err := s.Setup(machine); err != nil {
			return err
		}
		expect = &s.Expect
		slog.Info("load scenario", "name", s.Name)

	case len(args) > 0:
		path := args[0]
		bs, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("unable to load file %q: %w", path, err)
		}
		if err := machine.Load(opts.at, bs); err != nil {
			return fmt.Errorf("unable to load file %q: %w", path, err)
		}
		machine.SetPC(opts.pc)
		slog.Info("load program", "path", path, "at", fmt.Sprintf("0x%04x", opts.at), "n", len(bs))

	default:
		return errors.New("either a ROM file or --scenario is required")
	}

	for _, r := range opts.regs {
		i, v, err := parseRegister(r)
		if err != nil {
			return err
		}
		machine.SetRegister(i, v)
	}

	if err := machine.Run(); err != nil {
		return err
	}
	slog.Info("program halted", "steps", machine.Steps())

	printRegisters(out, machine)

	if expect != nil && machine.Register(0) != *expect {
		return fmt.Errorf("%w: v0 = %d, want %d", errExpectation, machine.Register(0), *expect)
	}

	return nil
}

func parseRegister(s string) (int, uint8, error) {
	idx, val, ok := strings.Cut(s, "=")
	if !ok {
		return 0, 0, fmt.Errorf("invalid register %q: expected INDEX=VALUE", s)
	}

	i, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(idx), "v"), 16, 8)
	if err != nil || i >= vm.RegisterCount {
		return 0, 0, fmt.Errorf("invalid register index %q", idx)
	}

	v, err := strconv.ParseUint(val, 0, 8)
	if err != nil {
		return 0, 0, fmt.Errorf("invalid register value %q: %w", val, err)
	}

	return int(i), uint8(v), nil
}

func printRegisters(out io.Writer, machine *vm.VM) {
	for i, v := range machine.Registers() {
		fmt.Fprintf(out, "v%x = %3d (0x%02x)\n", i, v, v)
	}
	fmt.Fprintf(out, "pc = 0x%04x\n", machine.PC())
}
