package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"lautenbacher.net/lovebox/collaborator"
	c "lautenbacher.net/lovebox/config"
	p "lautenbacher.net/lovebox/platform"
	u "lautenbacher.net/lovebox/util"
	"lautenbacher.net/lovebox/web"
)

const (
	readyTimeout    = 10 * time.Second
	shutdownTimeout = 5 * time.Second
)

// device is one running Lovebox built from one immutable configuration.
// A reload replaces the whole device.
type device struct {
	conf          *c.Config
	settings      c.Settings
	message       *u.AtomicEvent[string]
	platform      p.Platform
	actuator      *collaborator.ActuatorCollaborator
	display       *collaborator.DisplayCollaborator
	fetch         *collaborator.FetchCollaborator
	collaborators []collaborator.Collaborator
	server        *http.Server
	serverAddr    net.Addr
	serverDone    chan struct{}
}

func newDevice(conf *c.Config, platform p.Platform) *device {
	settings := conf.Settings()
	message := u.NewAtomicEvent[string]()

	d := &device{
		conf:     conf,
		settings: settings,
		message:  message,
		platform: platform,
		actuator: collaborator.NewActuatorCollaborator("actuator", settings, platform),
		display:  collaborator.NewDisplayCollaborator("display", settings, conf.Hardware.LightSensor, platform, message),
		fetch:    collaborator.NewFetchCollaborator("fetch", settings, conf.Fetch, message),
	}
	d.collaborators = []collaborator.Collaborator{d.actuator, d.display, d.fetch}
	return d
}

// Start refuses invalid settings before the hardware is touched. The
// settings checked are the ones the collaborators were built with.
func (d *device) Start() error {
	if err := d.settings.Validate(); err != nil {
		return err
	}
	slog.Info("Starting Lovebox", "settings", d.settings.String(), "realHW", d.conf.RealHW)

	if err := d.platform.Start(); err != nil {
		return fmt.Errorf("start platform: %w", err)
	}
	select {
	case <-d.platform.Ready():
	case <-time.After(readyTimeout):
		return fmt.Errorf("platform not ready after %s", readyTimeout)
	}

	for _, coll := range d.collaborators {
		coll.Start()
	}

	if d.conf.Web.Enabled {
		if err := d.startServer(); err != nil {
			return err
		}
	}
	return nil
}

func (d *device) startServer() error {
	ln, err := net.Listen("tcp", d.conf.Web.Listen)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", d.conf.Web.Listen, err)
	}
	d.server = web.NewServer(d.conf.Web.Listen, web.NewRouter(d.conf.Configfile, d.status))
	d.serverAddr = ln.Addr()
	d.serverDone = make(chan struct{})

	go func() {
		defer close(d.serverDone)
		slog.Info("Web server listening", "addr", d.serverAddr.String())
		if err := d.server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("Web server failed", "error", err)
		}
	}()
	return nil
}

// Stop stops the collaborators in reverse order, so the servo is back
// in position before the platform is released.
func (d *device) Stop() {
	if d.server != nil {
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		if err := d.server.Shutdown(ctx); err != nil {
			slog.Warn("Web server shutdown", "error", err)
		}
		cancel()
		<-d.serverDone
		d.server = nil
	}
	for i := len(d.collaborators) - 1; i >= 0; i-- {
		d.collaborators[i].Stop()
	}
	d.platform.Stop()
	slog.Info("Lovebox stopped")
}

func (d *device) status() web.Status {
	state := d.platform.State()
	_, received := d.message.Load()
	return web.Status{
		Message:       state.Message,
		Received:      received,
		ScreenOn:      state.ScreenOn,
		ServoPosition: state.ServoPosition,
		Light:         state.Light.Value,
		LightAt:       state.Light.Timestamp,
		LightStats:    d.display.History().Stats(),
		FetchEnabled:  d.settings.FetchEnabled(),
		Settings:      d.settings.LoveboxConfig(),
	}
}
