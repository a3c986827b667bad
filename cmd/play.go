package cmd

import (
	"context"
	"errors"
	"io"
	"os/signal"
	"syscall"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/mafilu-cli/mafilu/key"
	"github.com/mafilu-cli/mafilu/log"
	"github.com/mafilu-cli/mafilu/metrics"
	"github.com/mafilu-cli/mafilu/network"
	"github.com/mafilu-cli/mafilu/player"
	"github.com/mafilu-cli/mafilu/resume"
	"github.com/mafilu-cli/mafilu/stream"
	"github.com/mafilu-cli/mafilu/stream/hls"
	"github.com/mafilu-cli/mafilu/tui"
	"github.com/mafilu-cli/mafilu/util"
	"github.com/mafilu-cli/mafilu/where"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// playOptions builds the control surface options from flags and configuration.
// release closes the resume storage.
func playOptions(cmd *cobra.Command, url string) (options *tui.Options, release func(), err error) {
	flags := cmd.Flags()

	options = &tui.Options{
		URL:          url,
		VideoID:      lo.Must(flags.GetString("id")),
		Title:        lo.Must(flags.GetString("title")),
		Description:  lo.Must(flags.GetString("description")),
		Poster:       lo.Must(flags.GetString("poster")),
		DurationHint: lo.Must(flags.GetFloat64("duration-hint")),
		Autoplay:     viper.GetBool(key.PlayerAutoplay),
		Volume:       util.Clamp(float64(viper.GetInt(key.PlayerVolume))/100, 0, 1),
		Stream:       streamOptions(),
		Clock:        clockwork.NewRealClock(),
	}
	if options.VideoID == "" {
		options.VideoID = url
	}

	options.NewElement = func(volume float64) (player.Element, error) {
		return player.NewMPV(player.Options{
			Binary:    viper.GetString(key.Player),
			Title:     options.Title,
			NativeHLS: viper.GetBool(key.PlayerNativeHLS),
			Volume:    volume,
		}), nil
	}

	release = func() {}
	if viper.GetBool(key.ResumeEnable) {
		storage, err := resume.FromConfig()
		if err != nil {
			return nil, nil, err
		}
		options.Resume = resume.New(storage, options.Clock)
		if closer, ok := storage.(io.Closer); ok {
			release = func() { util.Ignore(closer.Close) }
		}
	}

	return options, release, nil
}

func streamOptions() stream.Options {
	return stream.Options{
		HLS: hls.Config{
			HTTPClient:       network.Client,
			InitialBandwidth: viper.GetInt(key.StreamABRInitialBandwidth),
			SafetyFactor:     float64(viper.GetInt(key.StreamABRSafetyFactor)) / 100,
			FragmentRetries:  viper.GetInt(key.StreamFragmentRetries),
			RetryDelay:       500 * time.Millisecond,
		},
		RetryInterval: time.Duration(viper.GetInt(key.StreamNetworkRetryInterval)) * time.Millisecond,
	}
}

// play runs the control surface until the user quits or the process is
// asked to stop.
func play(options *tui.Options) error {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGTERM, syscall.SIGHUP)
	defer stop()

	// Sockets left behind by crashed engines.
	go func() {
		if removed, err := player.RemoveStaleSockets(where.Temp()); err != nil {
			log.Warnf("cleaning engine sockets: %v", err)
		} else if removed > 0 {
			log.Infof("removed %d stale engine sockets", removed)
		}
	}()

	metrics.Register(prometheus.DefaultRegisterer)
	if addr := viper.GetString(key.MetricsAddr); addr != "" {
		if _, err := metrics.Serve(ctx, addr, prometheus.DefaultGatherer); err != nil {
			log.Warnf("metrics endpoint disabled: %v", err)
		}
	}

	err := tui.Run(ctx, options)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
