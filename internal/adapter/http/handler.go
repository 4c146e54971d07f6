package http

import (
	"bufio"
	"context"
	"net"
	"sync"
	"time"

	"resume-service/internal/usecase"
	"resume-service/pkg/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

const (
	// countTimeout bounds the stats increment that runs after the body was sent.
	countTimeout     = 5 * time.Second
	streamBufferSize = 32 << 10
)

type Handler struct {
	downloads *usecase.DownloadService
	stats     *usecase.StatsService
	log       logger.Logger

	// inflight tracks hijacked downloads until they are counted or aborted.
	inflight sync.WaitGroup
}

func NewHandler(d *usecase.DownloadService, s *usecase.StatsService, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NewNop()
	}
	return &Handler{downloads: d, stats: s, log: log}
}

// Download produces the requested variant and sends it as an attachment.
//
// The connection is hijacked and the body written straight to the socket;
// the download counts only once every write to the connection returned nil.
// The increment runs in the background, after the connection is released.
func (h *Handler) Download(c *fiber.Ctx) error {
	d, err := h.downloads.Prepare(c.UserContext(), c.Query("type"))
	if err != nil {
		return err
	}
	log := logger.FromContext(c.UserContext(), h.log).With(zap.String("file_name", d.FileName))

	c.Attachment(d.FileName)
	c.Set(fiber.HeaderContentType, d.ContentType)
	c.Status(fiber.StatusOK)
	c.Response().Header.SetContentLength(d.Size())
	c.Response().Header.SetConnectionClose()
	head := append([]byte(nil), c.Response().Header.Header()...)

	h.inflight.Add(1)
	c.Context().HijackSetNoResponse(true)
	c.Context().Hijack(func(conn net.Conn) {
		bw := bufio.NewWriterSize(conn, streamBufferSize)
		// bufio errors are sticky: a failed header write fails WriteTo as well
		_, _ = bw.Write(head)
		if _, err := d.WriteTo(bw); err != nil {
			h.inflight.Done()
			return
		}
		go func() {
			defer h.inflight.Done()
			ctx, cancel := context.WithTimeout(context.Background(), countTimeout)
			defer cancel()
			if err := d.Complete(ctx); err != nil {
				log.Error("download not counted", err)
			}
		}()
	})
	return nil
}

// Wait blocks until every hijacked download finished streaming and counting,
// or until ctx is done.
func (h *Handler) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		h.inflight.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Stats returns the current download counters.
func (h *Handler) Stats(c *fiber.Ctx) error {
	s, err := h.stats.Read(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(s)
}

// Preview returns the rendered HTML of a variant. Previews are not counted.
func (h *Handler) Preview(c *fiber.Ctx) error {
	body, err := h.downloads.Preview(c.UserContext(), c.Query("type"))
	if err != nil {
		return err
	}
	c.Type("html", "utf-8")
	return c.SendString(body.HTML)
}

func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}
