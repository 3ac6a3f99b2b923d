// Comando report executa uma única operação do motor de insights e imprime o resultado em JSON
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/vfg2006/insights-engine/internal/bootstrap"
	"github.com/vfg2006/insights-engine/internal/config"
	"github.com/vfg2006/insights-engine/internal/scheduler"
	"github.com/vfg2006/insights-engine/internal/usecases/insighting"
	"github.com/vfg2006/insights-engine/pkg/log"
	"github.com/vfg2006/insights-engine/pkg/utils"
)

type options struct {
	op         string
	start      string
	end        string
	interval   string
	limit      int
	currency   string
	steps      string
	base       string
	conversion string
	segment    string
	filters    string
}

func main() {
	opts := parseFlags()

	cfg, err := config.NewConfig()
	if err != nil {
		fmt.Fprintln(os.Stderr, "config:", err)
		os.Exit(1)
	}
	log.Setup("warn")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Engine.QueryTimeout*time.Duration(cfg.Engine.MaxPages+1))
	defer cancel()

	engine, err := bootstrap.NewEngine(ctx, cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "bootstrap:", err)
		os.Exit(1)
	}
	defer engine.Close()

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription(fmt.Sprintf("calculando %s", opts.op)),
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSpinnerType(14),
		progressbar.OptionClearOnFinish(),
	)

	done := make(chan struct{})
	go func() {
		ticker := time.NewTicker(100 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-done:
				return
			case <-ticker.C:
				_ = bar.Add(1)
			}
		}
	}()

	result, err := run(ctx, engine.Insighter, opts)
	close(done)
	_ = bar.Finish()

	if err != nil {
		fmt.Fprintln(os.Stderr, "erro:", err)
		os.Exit(1)
	}

	out, err := utils.PrettyJson(result)
	if err != nil {
		fmt.Fprintln(os.Stderr, "json:", err)
		os.Exit(1)
	}
	fmt.Println(out)
}

func parseFlags() options {
	var opts options

	flag.StringVar(&opts.op, "op", "summary", "operação: summary, products, trends, funnel ou cvr")
	flag.StringVar(&opts.start, "start", "", "data inicial YYYY-MM-DD")
	flag.StringVar(&opts.end, "end", "", "data final YYYY-MM-DD (inclusiva)")
	flag.StringVar(&opts.interval, "interval", "daily", "intervalo das tendências: daily, weekly ou monthly")
	flag.IntVar(&opts.limit, "limit", 0, "quantidade de produtos")
	flag.StringVar(&opts.currency, "currency", "", "moeda ISO 4217")
	flag.StringVar(&opts.steps, "steps", "", "etapas do funil: nome:evento|evento,nome:evento")
	flag.StringVar(&opts.base, "base", "", "eventos base do CVR, separados por vírgula")
	flag.StringVar(&opts.conversion, "conversion", "", "eventos de conversão do CVR, separados por vírgula")
	flag.StringVar(&opts.segment, "segment", "", "dimensão de segmentação")
	flag.StringVar(&opts.filters, "filters", "", "predicados chave=valor separados por vírgula")
	flag.Parse()

	return opts
}

// args monta os argumentos soltos usados pelos Decode* do caso de uso
func (o options) args() (map[string]any, error) {
	args := map[string]any{
		"start_date": o.start,
		"end_date":   o.end,
	}

	if o.currency != "" {
		args["currency"] = o.currency
	}
	if o.limit != 0 {
		args["limit"] = o.limit
	}
	if o.interval != "" {
		args["interval"] = o.interval
	}
	if o.segment != "" {
		args["segment_by"] = o.segment
	}
	if o.base != "" {
		args["base_events"] = o.base
	}
	if o.conversion != "" {
		args["conversion_events"] = o.conversion
	}

	if o.filters != "" {
		filters := make(map[string]string)
		for _, pair := range strings.Split(o.filters, ",") {
			key, value, ok := strings.Cut(pair, "=")
			if !ok {
				return nil, fmt.Errorf("filtro inválido %q, esperado chave=valor", pair)
			}
			filters[strings.TrimSpace(key)] = strings.TrimSpace(value)
		}
		args["filters"] = filters
	}

	return args, nil
}

func run(ctx context.Context, insighter insighting.CombinedInsighter, opts options) (any, error) {
	args, err := opts.args()
	if err != nil {
		return nil, err
	}

	switch opts.op {
	case "summary":
		req, err := insighting.DecodeSalesSummaryRequest(args)
		if err != nil {
			return nil, err
		}
		return insighter.GetSalesSummary(ctx, req)
	case "products":
		req, err := insighting.DecodeProductSalesRequest(args)
		if err != nil {
			return nil, err
		}
		return insighter.GetSalesByProduct(ctx, req)
	case "trends":
		req, err := insighting.DecodeSalesTrendsRequest(args)
		if err != nil {
			return nil, err
		}
		return insighter.GetSalesTrends(ctx, req)
	case "funnel":
		steps, err := scheduler.ParseFunnelSteps(strings.Split(opts.steps, ","))
		if err != nil {
			return nil, err
		}
		args["steps"] = steps
		req, err := insighting.DecodeFunnelRequest(args)
		if err != nil {
			return nil, err
		}
		return insighter.AnalyzeFunnel(ctx, req)
	case "cvr":
		req, err := insighting.DecodeCVRRequest(args)
		if err != nil {
			return nil, err
		}
		return insighter.GetCVR(ctx, req)
	}

	return nil, errors.New("operação desconhecida: " + opts.op)
}
