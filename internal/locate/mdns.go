package locate

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/grandcat/zeroconf"
	"go.uber.org/zap"

	"github.com/muurk/meshinv/internal/logging"
)

const (
	// DefaultService is the mDNS service type the discovery service advertises
	DefaultService = "_meshdisc._tcp"

	// ServiceDomain is the mDNS domain
	ServiceDomain = "local."

	// DefaultTimeout is how long a browse runs
	DefaultTimeout = 5 * time.Second

	// DefaultPort is used when an entry advertises no port
	DefaultPort = 80

	// DefaultPath is used when an entry has no "path" TXT key
	DefaultPath = "/cgi-bin/wg-mesh-discovery"
)

// ErrNotFound is returned by First when nothing was advertised in time
var ErrNotFound = errors.New("no discovery service found on the local network")

// Browser finds discovery services over mDNS
type Browser struct {
	// Service is the mDNS service type to browse for
	Service string

	// Domain is the mDNS domain
	Domain string

	// Timeout bounds each browse
	Timeout time.Duration

	now func() time.Time
}

// NewBrowser creates a browser for service ("" for DefaultService)
func NewBrowser(service string) *Browser {
	if service == "" {
		service = DefaultService
	}
	return &Browser{
		Service: service,
		Domain:  ServiceDomain,
		Timeout: DefaultTimeout,
		now:     time.Now,
	}
}

// browse streams parsed services to found until ctx ends or found returns false
func (b *Browser) browse(ctx context.Context, found func(Service) bool) error {
	ctx, cancel := context.WithTimeout(ctx, b.Timeout)
	defer cancel()

	resolver, err := zeroconf.NewResolver(nil)
	if err != nil {
		return fmt.Errorf("failed to create mDNS resolver: %w", err)
	}

	entries := make(chan *zeroconf.ServiceEntry)
	go func() {
		for entry := range entries {
			svc, ok := parseServiceEntry(entry, b.now())
			if !ok {
				continue
			}
			logging.Debug("mDNS service found",
				zap.String("instance", svc.Instance),
				zap.String("url", svc.BaseURL()),
			)
			if !found(svc) {
				cancel()
				return
			}
		}
	}()

	if err := resolver.Browse(ctx, b.Service, b.Domain, entries); err != nil {
		return fmt.Errorf("failed to browse for mDNS services: %w", err)
	}

	<-ctx.Done()
	return nil
}

// Browse lists every service advertised within the timeout, one per instance
func (b *Browser) Browse(ctx context.Context) ([]Service, error) {
	var (
		mu       sync.Mutex
		services []Service
		seen     = make(map[string]bool)
	)

	err := b.browse(ctx, func(svc Service) bool {
		mu.Lock()
		defer mu.Unlock()
		if !seen[svc.Instance] {
			seen[svc.Instance] = true
			services = append(services, svc)
		}
		return true
	})
	if err != nil {
		return nil, err
	}

	mu.Lock()
	defer mu.Unlock()
	return append([]Service(nil), services...), nil
}

// First returns the first service advertised within the timeout
func (b *Browser) First(ctx context.Context) (Service, error) {
	result := make(chan Service, 1)

	err := b.browse(ctx, func(svc Service) bool {
		select {
		case result <- svc:
		default:
		}
		return false
	})
	if err != nil {
		return Service{}, err
	}

	select {
	case svc := <-result:
		return svc, nil
	default:
		return Service{}, ErrNotFound
	}
}

// BaseURL returns the base URL of the first advertised service
func (b *Browser) BaseURL(ctx context.Context) (string, error) {
	svc, err := b.First(ctx)
	if err != nil {
		return "", err
	}
	return svc.BaseURL(), nil
}

// parseServiceEntry converts a zeroconf entry. Entries without an address are skipped.
func parseServiceEntry(entry *zeroconf.ServiceEntry, now time.Time) (Service, bool) {
	if entry == nil {
		return Service{}, false
	}

	var ip string
	if len(entry.AddrIPv4) > 0 {
		ip = entry.AddrIPv4[0].String()
	} else if len(entry.AddrIPv6) > 0 {
		ip = entry.AddrIPv6[0].String()
	}
	if ip == "" {
		return Service{}, false
	}

	port := entry.Port
	if port == 0 {
		port = DefaultPort
	}

	metadata := parseTXT(entry.Text)
	path := metadata["path"]
	if path == "" {
		path = DefaultPath
	}
	if !strings.HasPrefix(path, "/") {
		path = "/" + path
	}

	instance := entry.Instance
	if instance == "" {
		instance = strings.TrimSuffix(entry.HostName, ".")
	}

	return Service{
		Instance:     instance,
		Hostname:     entry.HostName,
		IP:           ip,
		Port:         port,
		Path:         strings.TrimRight(path, "/"),
		Metadata:     metadata,
		DiscoveredAt: now,
	}, true
}
