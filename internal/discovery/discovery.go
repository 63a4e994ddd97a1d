// Package discovery advertises the daemon on the local network over mDNS.
package discovery

import (
	"fmt"
	"log/slog"
	"net"

	"github.com/grandcat/zeroconf"
)

const (
	serviceName = "_http._tcp"
	domain      = "local."
)

// Advertisement describes the record published for this device.
type Advertisement struct {
	Instance string
	Port     int
	Version  string
	Path     string
}

// TXT returns the TXT record entries.
func (a Advertisement) TXT() []string {
	path := a.Path
	if path == "" {
		path = "/"
	}
	return []string{"version=" + a.Version, "path=" + path}
}

type registerFunc func(instance, service, domain string, port int, text []string, ifaces []net.Interface) (shutdowner, error)

type shutdowner interface {
	Shutdown()
}

func zeroconfRegister(instance, service, domain string, port int, text []string, ifaces []net.Interface) (shutdowner, error) {
	return zeroconf.Register(instance, service, domain, port, text, ifaces)
}

// Advertiser keeps an mDNS registration alive until Shutdown.
type Advertiser struct {
	server shutdowner
	logger *slog.Logger
}

// Advertise registers ad on all interfaces.
func Advertise(ad Advertisement, logger *slog.Logger) (*Advertiser, error) {
	return advertise(zeroconfRegister, ad, logger)
}

func advertise(register registerFunc, ad Advertisement, logger *slog.Logger) (*Advertiser, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if ad.Port <= 0 || ad.Port > 65535 {
		return nil, fmt.Errorf("invalid port %d", ad.Port)
	}

	srv, err := register(ad.Instance, serviceName, domain, ad.Port, ad.TXT(), nil)
	if err != nil {
		return nil, fmt.Errorf("mdns register %s: %w", ad.Instance, err)
	}
	logger.Info("discovery: advertising", "instance", ad.Instance, "service", serviceName, "port", ad.Port)
	return &Advertiser{server: srv, logger: logger}, nil
}

// Shutdown withdraws the registration.
func (a *Advertiser) Shutdown() {
	if a == nil || a.server == nil {
		return
	}
	a.server.Shutdown()
	a.logger.Debug("discovery: stopped")
}
