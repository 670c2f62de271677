package printing

import (
	"context"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/jhoicas/estoque-api/pkg/config"
)

// Client envía documentos PDF al agente HTTP de una impresora de red.
type Client struct {
	http *resty.Client
	port int
	path string
}

// NewClient construye el cliente con el puerto, ruta y timeout configurados.
func NewClient(cfg config.PrintingConfig) *Client {
	path := "/" + strings.TrimPrefix(cfg.Path, "/")
	rc := resty.New().
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetHeader("Content-Type", "application/pdf").
		SetRetryCount(1).
		SetRetryWaitTime(500 * time.Millisecond)
	return &Client{http: rc, port: cfg.Port, path: path}
}

// URL dirección del agente de impresión para la IP dada.
func (c *Client) URL(ip string) string {
	return "http://" + net.JoinHostPort(ip, strconv.Itoa(c.port)) + c.path
}

// Send publica el PDF; cualquier status >= 400 es error.
func (c *Client) Send(ctx context.Context, ip, jobName string, doc []byte) error {
	resp, err := c.http.R().
		SetContext(ctx).
		SetHeader("X-Print-Job", jobName).
		SetBody(doc).
		Post(c.URL(ip))
	if err != nil {
		return fmt.Errorf("send print job to %s: %w", ip, err)
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		return fmt.Errorf("printer %s responded %d: %s", ip, resp.StatusCode(), strings.TrimSpace(resp.String()))
	}
	return nil
}
