package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/davecgh/go-spew/spew"
	"github.com/rmrobinson/weatherbox/services/weather"
	"github.com/rmrobinson/weatherbox/services/weather/openweather"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

const maxSuggestions = 5

func main() {
	pflag.String("city", "", "city to get the current conditions for")
	pflag.String("suggest", "", "partial city name to list matching places for")
	pflag.String("endpoint", openweather.DefaultEndpoint, "OpenWeatherMap API base URL")
	pflag.Duration("timeout", 10*time.Second, "request timeout")
	pflag.Bool("dump", false, "dump the raw result rather than a summary")
	pflag.Parse()

	viper.SetEnvPrefix("WBX")
	viper.BindEnv("api_key")
	viper.BindPFlags(pflag.CommandLine)

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}

	apiKey := viper.GetString("api_key")
	if apiKey == "" {
		logger.Fatal("api key required",
			zap.String("env_var", "WBX_API_KEY"),
		)
	}

	svc := openweather.NewService(logger, apiKey, openweather.WithEndpoint(viper.GetString("endpoint")))
	api := weather.NewAPI(logger, svc)

	ctx, cancel := context.WithTimeout(context.Background(), viper.GetDuration("timeout"))
	defer cancel()

	switch {
	case viper.GetString("suggest") != "":
		places, err := api.Suggest(ctx, viper.GetString("suggest"))
		if err != nil {
			logger.Fatal("unable to get suggestions",
				zap.Error(err),
			)
		}
		if len(places) > maxSuggestions {
			places = places[:maxSuggestions]
		}

		if viper.GetBool("dump") {
			spew.Dump(places)
			return
		}
		for _, place := range places {
			fmt.Println(place.Label())
		}
	case viper.GetString("city") != "":
		report, err := api.GetCurrentReport(ctx, viper.GetString("city"))
		if err != nil {
			logger.Info("error getting weather",
				zap.Error(err),
			)
			fmt.Fprintln(os.Stderr, "City not found or API error.")
			os.Exit(1)
		}

		if viper.GetBool("dump") {
			spew.Dump(report)
			return
		}
		fmt.Println(report.Title())
		fmt.Println(report.TemperatureText())
		fmt.Println(report.ConditionText())
		fmt.Println("Feels like: " + report.FeelsLikeText())
		fmt.Println("Humidity: " + report.HumidityText())
		fmt.Println("Wind: " + report.WindSpeedText())
	default:
		pflag.Usage()
		os.Exit(2)
	}
}
