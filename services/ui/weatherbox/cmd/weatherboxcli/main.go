package main

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/rivo/tview"
	"github.com/rmrobinson/weatherbox/lib/debounce"
	"github.com/rmrobinson/weatherbox/lib/stream"
	"github.com/rmrobinson/weatherbox/services/ui/weatherbox"
	"github.com/rmrobinson/weatherbox/services/ui/weatherbox/widget"
	"github.com/rmrobinson/weatherbox/services/weather"
	"github.com/rmrobinson/weatherbox/services/weather/openweather"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	envVarAPIKey        = "API_KEY"
	envVarEndpoint      = "ENDPOINT"
	envVarDebounceMs    = "DEBOUNCE_MS"
	envVarHTTPTimeoutMs = "HTTP_TIMEOUT_MS"
	envVarDebug         = "DEBUG"
)

func main() {
	viper.SetEnvPrefix("WBX")
	viper.BindEnv(envVarAPIKey)
	viper.BindEnv(envVarEndpoint)
	viper.BindEnv(envVarDebounceMs)
	viper.BindEnv(envVarHTTPTimeoutMs)
	viper.BindEnv(envVarDebug)
	viper.SetDefault(envVarEndpoint, openweather.DefaultEndpoint)
	viper.SetDefault(envVarDebounceMs, int(weatherbox.DefaultDebounce/time.Millisecond))

	bootLogger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	apiKey := viper.GetString(envVarAPIKey)
	if apiKey == "" {
		bootLogger.Fatal("api key required",
			zap.String("env_var", "WBX_"+envVarAPIKey),
		)
	}

	app := tview.NewApplication()

	var debugView *widget.Debug
	logger := zap.NewNop()
	if viper.GetBool(envVarDebug) {
		debugView = widget.NewDebug(app)
		logger = newWidgetLogger(bootLogger, debugView)
	}

	httpClient := &http.Client{
		Timeout: time.Duration(viper.GetInt(envVarHTTPTimeoutMs)) * time.Millisecond,
	}
	svc := openweather.NewService(logger, apiKey,
		openweather.WithEndpoint(viper.GetString(envVarEndpoint)),
		openweather.WithHTTPClient(httpClient),
	)
	api := weather.NewAPI(logger, svc)

	source := stream.NewSource(logger)
	controller := weatherbox.NewController(logger, api, source, debounce.NewTimerScheduler(),
		time.Duration(viper.GetInt(envVarDebounceMs))*time.Millisecond)
	defer controller.Close()

	box := widget.NewWeatherBox(app, controller, debugView)

	sink := source.NewSink()
	defer sink.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go box.Run(ctx, sink)

	logger.Info("starting",
		zap.String("endpoint", viper.GetString(envVarEndpoint)),
	)
	if err := app.SetRoot(box, true).SetFocus(box).Run(); err != nil {
		bootLogger.Fatal("ui exited",
			zap.Error(err),
		)
	}
}

// newWidgetLogger builds a development logger whose output goes to the debug widget rather than the terminal.
func newWidgetLogger(bootLogger *zap.Logger, debugView *widget.Debug) *zap.Logger {
	sink := NewWidgetSink(debugView)
	if err := zap.RegisterSink("widget", func(*url.URL) (zap.Sink, error) {
		return sink, nil
	}); err != nil {
		bootLogger.Fatal("unable to register widget sink",
			zap.Error(err),
		)
	}

	cfg := zap.NewDevelopmentConfig()
	cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	cfg.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	cfg.OutputPaths = []string{"widget://debug"}
	cfg.ErrorOutputPaths = []string{"widget://debug"}

	logger, err := cfg.Build()
	if err != nil {
		bootLogger.Fatal("unable to build widget logger",
			zap.Error(err),
		)
	}
	return logger
}
