package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/ccumaco/ai-frontend/internal/app"
	"github.com/ccumaco/ai-frontend/internal/fakeapi"
	"go.uber.org/fx"
)

func main() {
	profileFlag := flag.String("profile", "", "profile name (overrides config default)")
	apiURLFlag := flag.String("api-url", "", "backend base URL (overrides env and profile)")
	stubFlag := flag.Bool("stub", false, "serve an in-memory backend in-process and attach to it")
	flag.Parse()

	params := app.Params{
		Profile:   *profileFlag,
		APIURL:    *apiURLFlag,
		Binary:    "aifront",
		Exclusive: true,
	}
	if _, err := app.ResolveSettings(params); err != nil {
		fail(err)
	}

	if *stubFlag {
		url, stop, err := startStub()
		if err != nil {
			fail(fmt.Errorf("start stub backend: %w", err))
		}
		defer stop()
		params.APIURL = url
	}

	fxApp := fx.New(app.Module(params), app.TUI())
	if err := fxApp.Err(); err != nil {
		fail(err)
	}

	startCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := fxApp.Start(startCtx); err != nil {
		fail(err)
	}

	<-fxApp.Done()

	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	if err := fxApp.Stop(stopCtx); err != nil {
		fmt.Fprintf(os.Stderr, "shutdown: %v\n", err)
	}
}

// startStub serves a seeded in-memory backend on a loopback port.
func startStub() (string, func(), error) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		return "", nil, err
	}
	backend := fakeapi.New(nil)
	fakeapi.SeedDemo(backend)
	srv := &http.Server{Handler: backend.Handler(), ReadHeaderTimeout: 5 * time.Second}
	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fmt.Fprintf(os.Stderr, "stub backend: %v\n", err)
		}
	}()
	stop := func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		_ = srv.Shutdown(ctx)
	}
	return "http://" + ln.Addr().String() + fakeapi.BasePath, stop, nil
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "error: %v\n", err)
	os.Exit(1)
}
