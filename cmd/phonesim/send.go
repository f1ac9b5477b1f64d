package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"sparkwatch/sparkos/proto"
	"sparkwatch/sparkos/tasks/watchface"
)

type sendOptions struct {
	invert        int
	bluetoothVibe int
	hourlyVibe    int
	minimal       int
	temperature   string
	condition     string
}

func newSendCmd() *cobra.Command {
	var opts sendOptions
	cmd := &cobra.Command{
		Use:   "send",
		Short: "Send the given settings as one dictionary",
		Example: "  phonesim send --invert=1 --temp 21C\n" +
			"  phonesim send --condition \"Light rain\" --mmode=0",
		RunE: func(cmd *cobra.Command, args []string) error {
			tuples := opts.tuples(cmd.Flags())
			if len(tuples) == 0 {
				return errors.New("nothing to send: set at least one setting flag")
			}
			l, err := dialLink(addr, logger)
			if err != nil {
				return err
			}
			defer l.Close()

			err = l.Push(tuples)
			switch {
			case errors.Is(err, errNoReply):
				logger.Warn("sent without acknowledgement", "addr", addr, "dict", describe(tuples))
				return nil
			case err != nil:
				return err
			}
			logger.Info("acknowledged", "addr", addr, "dict", describe(tuples))
			return nil
		},
	}
	f := cmd.Flags()
	f.IntVar(&opts.invert, watchface.KeyInvert.String(), 0, "Invert colors (0 or 1)")
	f.IntVar(&opts.bluetoothVibe, watchface.KeyBluetoothVibe.String(), 0, "Vibrate on disconnect (0 or 1)")
	f.IntVar(&opts.hourlyVibe, watchface.KeyHourlyVibe.String(), 0, "Vibrate on the hour (0 or 1)")
	f.IntVar(&opts.minimal, watchface.KeyMinimal.String(), 0, "Minimal mode (0 or 1)")
	f.StringVar(&opts.temperature, watchface.KeyTemperature.String(), "", "Temperature text")
	f.StringVar(&opts.condition, watchface.KeyCondition.String(), "", "Weather condition text")
	return cmd
}

// tuples returns one tuple per flag the user set, in key order.
func (o sendOptions) tuples(fs *pflag.FlagSet) []proto.Tuple {
	var out []proto.Tuple
	ints := []struct {
		key watchface.Key
		v   int
	}{
		{watchface.KeyInvert, o.invert},
		{watchface.KeyBluetoothVibe, o.bluetoothVibe},
		{watchface.KeyHourlyVibe, o.hourlyVibe},
	}
	for _, e := range ints {
		if fs.Changed(e.key.String()) {
			out = append(out, proto.IntTuple(uint32(e.key), int32(e.v)))
		}
	}
	if fs.Changed(watchface.KeyTemperature.String()) {
		out = append(out, proto.CStringTuple(uint32(watchface.KeyTemperature), o.temperature))
	}
	if fs.Changed(watchface.KeyCondition.String()) {
		out = append(out, proto.CStringTuple(uint32(watchface.KeyCondition), o.condition))
	}
	if fs.Changed(watchface.KeyMinimal.String()) {
		out = append(out, proto.IntTuple(uint32(watchface.KeyMinimal), int32(o.minimal)))
	}
	return out
}

func describe(tuples []proto.Tuple) string {
	parts := make([]string, 0, len(tuples))
	for _, t := range tuples {
		parts = append(parts, fmt.Sprintf("%s=%s", watchface.Key(t.Key), tupleValue(t)))
	}
	return strings.Join(parts, " ")
}

func tupleValue(t proto.Tuple) string {
	if v, ok := t.Int(); ok {
		return fmt.Sprint(v)
	}
	if v, ok := t.Str(); ok {
		return fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf("%x", t.Value)
}
