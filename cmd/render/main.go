package main

import (
	"context"
	"flag"
	"os"
	"path/filepath"
	"time"

	"resume-service/internal/adapter/repository"
	"resume-service/internal/domain"
	"resume-service/internal/usecase"
	"resume-service/pkg/infrastructure"
	"resume-service/pkg/logger"

	"go.uber.org/zap"
)

// render writes every variant of the résumé in -in to -out. Nothing is
// counted: this is for checking layout changes locally.
func main() {
	in := flag.String("in", "data/resume.json", "content file")
	out := flag.String("out", "out", "output directory")
	backend := flag.String("backend", "fpdf", "document backend: fpdf or chromedp")
	chromePath := flag.String("chrome", os.Getenv("CHROME_PATH"), "chrome binary for the chromedp backend")
	html := flag.Bool("html", false, "also write the rendered HTML")
	flag.Parse()

	log := logger.NewZapLogger("development")
	defer log.Sync()

	var renderer usecase.Renderer = infrastructure.NewFpdfRenderer()
	if *backend == "chromedp" {
		renderer = infrastructure.NewChromedpRenderer(*chromePath)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	content, err := usecase.NewContentStore(repository.NewFileContentSource(*in)).Load(ctx)
	if err != nil {
		log.Fatal("read content", err, zap.String("file", *in))
	}
	if err := os.MkdirAll(*out, 0o755); err != nil {
		log.Fatal("create output dir", err)
	}

	producer := usecase.NewProducer(renderer, 0)
	for _, v := range domain.Variants {
		body, err := usecase.RenderDocument(v, content)
		if err != nil {
			log.Fatal("render", err, zap.String("variant", v.String()))
		}
		if *html {
			p := filepath.Join(*out, body.Subject+"-resume-"+v.String()+".html")
			if err := os.WriteFile(p, []byte(body.HTML), 0o644); err != nil {
				log.Fatal("write html", err)
			}
		}
		art, err := producer.Produce(ctx, body)
		if err != nil {
			log.Fatal("produce", err, zap.String("variant", v.String()))
		}
		p := filepath.Join(*out, art.FileName)
		if err := os.WriteFile(p, art.Bytes, 0o644); err != nil {
			log.Fatal("write pdf", err)
		}
		log.Info("wrote", zap.String("file", p), zap.Int("bytes", len(art.Bytes)))
	}
}
