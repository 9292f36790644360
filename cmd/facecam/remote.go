package main

import (
	"context"
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"

	"facecam/remote/internal/config"
	"facecam/remote/internal/domain"
	"facecam/remote/internal/metrics"
	"facecam/remote/internal/protocol"
	"facecam/remote/internal/publish"
	"facecam/remote/internal/session"
	"facecam/remote/internal/surface"
	"facecam/remote/internal/viewer"
)

// remote is one connected client: session, viewer and their collaborators.
type remote struct {
	session   *session.Client
	viewer    *viewer.Viewer
	surface   *surface.Buffer
	publisher domain.Publisher
	registry  *prometheus.Registry
}

// dial wires the components and connects. frameOut may be nil. cancel is
// called when the device hangs up.
func dial(ctx context.Context, cfg *config.Config, frameOut io.Writer, cancel context.CancelFunc) (*remote, error) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	var pub domain.Publisher = publish.Nop{}
	if cfg.MQTTBroker != "" {
		mq, err := publish.NewMQTT(publish.Options{
			Broker:      cfg.MQTTBroker,
			ClientID:    cfg.MQTTClientID,
			Username:    cfg.MQTTUsername,
			Password:    cfg.MQTTPassword,
			TopicPrefix: cfg.MQTTTopic,
		})
		if err != nil {
			return nil, err
		}
		pub = mq
	}

	buf := surface.NewBuffer(frameOut)

	// Viewer handles session events; the session carries viewer commands.
	v := viewer.New(buf, pub, m, cancel)
	sc := session.NewClient(cfg.URL, cfg.PingInterval, v)
	v.SetCommander(protocol.NewEncoder(sc, m))

	if err := sc.Connect(ctx); err != nil {
		buf.Close()
		pub.Close()
		return nil, fmt.Errorf("connect to camera: %w", err)
	}
	log.Info().Str("session", sc.ID()).Str("url", cfg.URL).Msg("camera connected")

	return &remote{
		session:   sc,
		viewer:    v,
		surface:   buf,
		publisher: pub,
		registry:  reg,
	}, nil
}

// Close tears down in dependency order: the read loop must be gone before
// the surface stops accepting frames.
func (r *remote) Close() {
	r.session.Close()
	<-r.session.Done()
	r.viewer.Close()
	r.surface.Close()
	r.publisher.Close()
}
