// Command probe checks a running server: the admin health service of every
// namespace, then the public /healthz endpoint.
package main

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"team-chat/domain"
	"team-chat/infrastructure/grpc/server"
	"time"

	"github.com/gookit/color"
	"github.com/kelseyhightower/envconfig"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/protobuf/encoding/protojson"
)

type Config struct {
	AdminAddr string        `envconfig:"PROBE_ADMIN_ADDR" default:"localhost:9090"`
	HTTPURL   string        `envconfig:"PROBE_HTTP_URL" default:"http://localhost:8080"`
	Timeout   time.Duration `envconfig:"PROBE_TIMEOUT" default:"3s"`
	// PROBE_DEBUG_JSON dumps every health response as JSON
	DebugJSON bool `envconfig:"PROBE_DEBUG_JSON" default:"false"`
	Colours   bool `envconfig:"PROBE_COLOURS" default:"true"`
}

func main() {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(2)
	}
	if !probe(cfg) {
		os.Exit(1)
	}
}

func probe(cfg Config) bool {
	conn, err := grpc.NewClient(cfg.AdminAddr, grpc.WithTransportCredentials(insecure.NewCredentials()))
	if err != nil {
		report(cfg, "admin", false, err.Error())
		return false
	}
	defer func() { _ = conn.Close() }()
	client := healthpb.NewHealthClient(conn)

	marshaler := protojson.MarshalOptions{
		UseProtoNames:   true,
		EmitUnpopulated: true,
	}

	healthy := true
	services := []string{""}
	for _, namespace := range domain.Namespaces {
		services = append(services, server.ServiceName(namespace))
	}
	for _, service := range services {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.Timeout)
		resp, err := client.Check(ctx, &healthpb.HealthCheckRequest{Service: service})
		cancel()
		name := service
		if name == "" {
			name = "process"
		}
		if err != nil {
			healthy = false
			report(cfg, name, false, err.Error())
			continue
		}
		ok := resp.Status == healthpb.HealthCheckResponse_SERVING
		healthy = healthy && ok
		detail := resp.Status.String()
		if cfg.DebugJSON {
			detail = marshaler.Format(resp)
		}
		report(cfg, name, ok, detail)
	}

	httpClient := &http.Client{Timeout: cfg.Timeout}
	resp, err := httpClient.Get(cfg.HTTPURL + "/healthz")
	if err != nil {
		report(cfg, "healthz", false, err.Error())
		return false
	}
	defer func() { _ = resp.Body.Close() }()
	body, _ := io.ReadAll(resp.Body)
	ok := resp.StatusCode == http.StatusOK
	report(cfg, "healthz", ok, string(body))
	return healthy && ok
}

func report(cfg Config, name string, ok bool, detail string) {
	label := fmt.Sprintf("  ====== %s ======", name)
	if cfg.Colours {
		style := color.New(color.BgBlack, color.FgGreen)
		if !ok {
			style = color.New(color.BgBlack, color.FgRed)
		}
		label = style.Render(label)
	}
	fmt.Printf("%s %s\n", label, detail)
}
