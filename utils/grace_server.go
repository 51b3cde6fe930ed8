package utils

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"
)

const (
	serverReadTimeout     = 60 * time.Second
	serverWriteTimeout    = 60 * time.Second
	serverShutdownTimeout = 30 * time.Second

	// inheritedListenerEnv marks a child started by a SIGUSR2 handoff.
	inheritedListenerEnv = "DOLLARBLOG_INHERITED_LISTENER"
	// first ExtraFiles entry
	inheritedListenerFD = 3
)

// Server is an http.Server that drains on SIGINT/SIGTERM and hands its
// listening socket to a fresh copy of the binary on SIGUSR2.
type Server struct {
	*http.Server

	log      *zap.Logger
	mu       sync.Mutex
	listener net.Listener
	signals  chan os.Signal
	done     chan struct{}
	once     sync.Once
	hooks    []func(context.Context)
}

// NewServer creates a Server with read/write timeouts.
func NewServer(addr string, handler http.Handler, log *zap.Logger) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		Server: &http.Server{
			Addr:         addr,
			Handler:      handler,
			ReadTimeout:  serverReadTimeout,
			WriteTimeout: serverWriteTimeout,
		},
		log:     log,
		signals: make(chan os.Signal, 1),
		done:    make(chan struct{}),
	}
}

// OnShutdown registers fn to run, in order, after in-flight requests drained.
func (srv *Server) OnShutdown(fn func(context.Context)) {
	srv.hooks = append(srv.hooks, fn)
}

// ListenAndServe blocks until the server has shut down and every hook ran.
func (srv *Server) ListenAndServe() error {
	ln, err := srv.listen()
	if err != nil {
		return err
	}
	srv.mu.Lock()
	srv.listener = ln
	srv.mu.Unlock()

	signal.Notify(srv.signals, syscall.SIGINT, syscall.SIGTERM, syscall.SIGUSR2)
	go srv.watchSignals()

	if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		signal.Stop(srv.signals)
		return err
	}
	<-srv.done
	return nil
}

// Stop drains the server and runs the shutdown hooks once.
func (srv *Server) Stop() {
	srv.once.Do(func() {
		signal.Stop(srv.signals)
		close(srv.signals)
		ctx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			srv.log.Error("HTTP server shutdown error", zap.Error(err))
		}
		for _, fn := range srv.hooks {
			fn(ctx)
		}
		close(srv.done)
	})
}

func (srv *Server) listenerAddr() string {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	if srv.listener == nil {
		return ""
	}
	return srv.listener.Addr().String()
}

func (srv *Server) listen() (net.Listener, error) {
	if os.Getenv(inheritedListenerEnv) != "" {
		ln, err := net.FileListener(os.NewFile(inheritedListenerFD, "listener"))
		if err != nil {
			return nil, fmt.Errorf("inherit listener: %w", err)
		}
		srv.log.Info("serving on inherited listener", zap.String("addr", ln.Addr().String()))
		return ln, nil
	}
	addr := srv.Addr
	if addr == "" {
		addr = ":http"
	}
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, fmt.Errorf("listen %s: %w", addr, err)
	}
	return ln, nil
}

func (srv *Server) watchSignals() {
	for sig := range srv.signals {
		if sig == syscall.SIGUSR2 {
			pid, err := srv.handoff()
			if err != nil {
				srv.log.Error("restart failed, still serving", zap.Error(err))
				continue
			}
			srv.log.Info("listener handed to new process", zap.Int("pid", pid))
		} else {
			srv.log.Info("shutting down HTTP server", zap.String("signal", sig.String()))
		}
		srv.Stop()
		return
	}
}

// handoff starts a copy of the running binary that serves on our socket.
func (srv *Server) handoff() (int, error) {
	srv.mu.Lock()
	tcpLn, ok := srv.listener.(*net.TCPListener)
	srv.mu.Unlock()
	if !ok {
		return 0, errors.New("listener is not a TCP listener")
	}
	file, err := tcpLn.File()
	if err != nil {
		return 0, fmt.Errorf("listener file: %w", err)
	}
	defer file.Close()

	exe, err := os.Executable()
	if err != nil {
		return 0, err
	}
	cmd := exec.Command(exe, os.Args[1:]...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	cmd.Env = append(os.Environ(), inheritedListenerEnv+"=1")
	cmd.ExtraFiles = []*os.File{file}
	if err := cmd.Start(); err != nil {
		return 0, fmt.Errorf("start child: %w", err)
	}
	return cmd.Process.Pid, nil
}
