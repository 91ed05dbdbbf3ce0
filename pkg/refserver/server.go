// Package refserver is an in-process, configurable SCIM server used to
// exercise pkg/probe end-to-end without a live service provider. It stores
// resources in memory, per resource type, and can be tuned with
// non-conformance knobs to reproduce the real-world server pathologies the
// probe is meant to catch.
package refserver

import (
	"net"
	"net/http"
	"sync"

	"github.com/julienschmidt/httprouter"
	"github.com/rs/zerolog"
)

// NonConformances toggles deliberate protocol violations in the server's
// responses, mirroring the knobs a misbehaving real-world SCIM service
// provider might exhibit.
type NonConformances struct {
	MissingID          bool
	MissingMeta        bool
	MissingMetaFields  bool
	PasswordInResponse bool
	ThrottleCount      int
	StaleAfterPut      bool
	RejectFilters      bool
	ContentTypeJSON    bool
}

// Options configures a Server at construction time.
type Options struct {
	NonConformances    NonConformances
	SupportedResources []string
	Logger             *zerolog.Logger
}

var defaultSupportedResources = []string{"User", "Group", "Agent", "AgenticApplication"}

// Server is a configurable, in-memory SCIM service provider.
type Server struct {
	mu sync.Mutex

	nc                 NonConformances
	supportedResources []string
	stores             map[string]map[string]map[string]interface{}
	staleSnapshots     map[string]map[string]interface{}

	log zerolog.Logger

	listener net.Listener
	httpSrv  *http.Server
	baseURL  string
}

// New builds a Server and its routing table but does not start listening.
// Call Start to bind a port and begin serving.
func New(opts Options) *Server {
	supported := opts.SupportedResources
	if len(supported) == 0 {
		supported = defaultSupportedResources
	}

	logger := zerolog.Nop()
	if opts.Logger != nil {
		logger = *opts.Logger
	}

	s := &Server{
		nc:                 opts.NonConformances,
		supportedResources: supported,
		stores:             map[string]map[string]map[string]interface{}{},
		staleSnapshots:     map[string]map[string]interface{}{},
		log:                logger,
	}
	for _, rt := range supported {
		s.stores[endpointFor(rt)] = map[string]map[string]interface{}{}
	}

	router := httprouter.New()
	s.registerRoutes(router)
	s.httpSrv = &http.Server{Handler: router}
	return s
}

// Start binds a random loopback port and begins serving in a background
// goroutine. Safe to call once per Server.
func (s *Server) Start() error {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return err
	}
	s.listener = ln
	s.baseURL = "http://" + ln.Addr().String()

	go func() {
		if err := s.httpSrv.Serve(ln); err != nil && err != http.ErrServerClosed {
			s.log.Err(err).Msg("reference server stopped unexpectedly")
		}
	}()
	return nil
}

// BaseURL returns the server's listen address, e.g. "http://127.0.0.1:54321".
// Only valid after Start returns successfully.
func (s *Server) BaseURL() string {
	return s.baseURL
}

// Close shuts down the listener and background goroutine.
func (s *Server) Close() error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Close()
}

func endpointFor(resourceType string) string {
	return resourceType + "s"
}

var resourceTypeForEndpoint = map[string]string{
	"Users":               "User",
	"Groups":              "Group",
	"Agents":              "Agent",
	"AgenticApplications": "AgenticApplication",
}
