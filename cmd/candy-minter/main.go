package main

import (
	"os"
	"os/signal"
	"syscall"

	goflags "github.com/jessevdk/go-flags"
	"github.com/sirupsen/logrus"
	"gitlab.com/scpcorp/candy-minter/app"
)

func parse(config interface{}) {
	errWrongCommand := 2

	_, err := goflags.Parse(config)
	if err != nil {
		if err, ok := err.(*goflags.Error); ok && err.Type == goflags.ErrHelp {
			os.Exit(errWrongCommand)
		}
		logrus.Fatalf("Error during flags parsing: %v.", err)
	}
}

func waitForShutdown(f func()) {
	c := make(chan os.Signal, 1)
	signal.Notify(c, os.Interrupt, syscall.SIGTERM)

	s, ok := <-c
	if !ok {
		return
	}
	logrus.WithField("signal", s.String()).Info("shutting down")

	f()
}

func main() {
	var config app.Config
	parse(&config)
	if err := app.SetupLogging(config); err != nil {
		logrus.Fatal(err)
	}

	a := app.New()
	if err := a.Start(config); err != nil {
		logrus.WithError(err).Error("failed to start candy minter")
		os.Exit(1)
	}

	waitForShutdown(a.Close)
}
