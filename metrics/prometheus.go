// Copyright (C) 2023 Gobalsky Labs Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package metrics

import (
	"fmt"
	"net/http"
	"sync"
	"time"

	"code.vegaprotocol.io/vamm/logging"

	"github.com/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const (
	// Gauge ...
	Gauge instrument = iota
	// Counter ...
	Counter
	// Histogram ...
	Histogram
)

const namespace = "vamm"

var (
	// ErrInstrumentNotSupported signals the specified instrument is not yet supported.
	ErrInstrumentNotSupported = errors.New("instrument type unsupported")
	// ErrInstrumentTypeMismatch signal the type of the instrument is not expected.
	ErrInstrumentTypeMismatch = errors.New("instrument is not of the expected type")
)

var (
	priceGauge      *prometheus.GaugeVec
	volatilityGauge *prometheus.GaugeVec
	updateCounter   *prometheus.CounterVec
	updateTime      *prometheus.HistogramVec
	settledCounter  prometheus.Counter

	setupOnce sync.Once
	setupErr  error
)

type instrument int

type instrumentOpts struct {
	opts    prometheus.Opts
	buckets []float64
	vectors []string
}

type mi struct {
	gaugeV     *prometheus.GaugeVec
	gauge      prometheus.Gauge
	counterV   *prometheus.CounterVec
	counter    prometheus.Counter
	histogramV *prometheus.HistogramVec
	histogram  prometheus.Histogram
}

// InstrumentOption - vararg for instrument options setting.
type InstrumentOption func(o *instrumentOpts)

// Vectors - configuration used to create a vector of a given interface, slice of label names.
func Vectors(labels ...string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.vectors = labels
	}
}

// Help - set the help field on instrument.
func Help(help string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Help = help
	}
}

// Namespace - set namespace.
func Namespace(ns string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Namespace = ns
	}
}

// Subsystem - set subsystem.
func Subsystem(s string) InstrumentOption {
	return func(o *instrumentOpts) {
		o.opts.Subsystem = s
	}
}

// Buckets - specific to histogram type.
func Buckets(b []float64) InstrumentOption {
	return func(o *instrumentOpts) {
		o.buckets = b
	}
}

// AddInstrument configures and registers a new metrics instrument
// with the given registerer.
func AddInstrument(reg prometheus.Registerer, t instrument, name string, opts ...InstrumentOption) (*mi, error) {
	var col prometheus.Collector
	ret := mi{}
	opt := instrumentOpts{
		opts: prometheus.Opts{
			Name: name,
		},
	}
	for _, o := range opts {
		o(&opt)
	}
	switch t {
	case Gauge:
		o := prometheus.GaugeOpts(opt.opts)
		if len(opt.vectors) == 0 {
			ret.gauge = prometheus.NewGauge(o)
			col = ret.gauge
		} else {
			ret.gaugeV = prometheus.NewGaugeVec(o, opt.vectors)
			col = ret.gaugeV
		}
	case Counter:
		o := prometheus.CounterOpts(opt.opts)
		if len(opt.vectors) == 0 {
			ret.counter = prometheus.NewCounter(o)
			col = ret.counter
		} else {
			ret.counterV = prometheus.NewCounterVec(o, opt.vectors)
			col = ret.counterV
		}
	case Histogram:
		o := opt.histogram()
		if len(opt.vectors) == 0 {
			ret.histogram = prometheus.NewHistogram(o)
			col = ret.histogram
		} else {
			ret.histogramV = prometheus.NewHistogramVec(o, opt.vectors)
			col = ret.histogramV
		}
	default:
		return nil, ErrInstrumentNotSupported
	}
	if err := reg.Register(col); err != nil {
		return nil, errors.Wrapf(err, "could not register %s", name)
	}
	return &ret, nil
}

func (i instrumentOpts) histogram() prometheus.HistogramOpts {
	return prometheus.HistogramOpts{
		Name:        i.opts.Name,
		Namespace:   i.opts.Namespace,
		Subsystem:   i.opts.Subsystem,
		ConstLabels: i.opts.ConstLabels,
		Help:        i.opts.Help,
		Buckets:     i.buckets,
	}
}

// Gauge returns a prometheus Gauge instrument.
func (m mi) Gauge() (prometheus.Gauge, error) {
	if m.gauge == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gauge, nil
}

// GaugeVec returns a prometheus GaugeVec instrument.
func (m mi) GaugeVec() (*prometheus.GaugeVec, error) {
	if m.gaugeV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.gaugeV, nil
}

// Counter returns a prometheus Counter instrument.
func (m mi) Counter() (prometheus.Counter, error) {
	if m.counter == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counter, nil
}

// CounterVec returns a prometheus CounterVec instrument.
func (m mi) CounterVec() (*prometheus.CounterVec, error) {
	if m.counterV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.counterV, nil
}

func (m mi) Histogram() (prometheus.Histogram, error) {
	if m.histogram == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogram, nil
}

func (m mi) HistogramVec() (*prometheus.HistogramVec, error) {
	if m.histogramV == nil {
		return nil, ErrInstrumentTypeMismatch
	}
	return m.histogramV, nil
}

// Setup registers the vamm instruments with the default registry.
// It is safe to call more than once.
func Setup() error {
	setupOnce.Do(func() {
		setupErr = setupMetrics(prometheus.DefaultRegisterer)
	})
	return setupErr
}

// Handler returns the http handler serving the registered metrics.
func Handler() http.Handler {
	return promhttp.Handler()
}

// Start enables metrics (given config) and serves them in the background.
func Start(log *logging.Logger, conf Config) error {
	if !conf.Enabled {
		return nil
	}
	if err := Setup(); err != nil {
		return errors.Wrap(err, "could not set up metrics")
	}
	mux := http.NewServeMux()
	mux.Handle(conf.Path, Handler())
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", conf.Port),
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("metrics server stopped", logging.Error(err))
		}
	}()
	log.Info("metrics enabled",
		logging.Int("port", conf.Port),
		logging.String("path", conf.Path),
	)
	return nil
}

func setupMetrics(reg prometheus.Registerer) error {
	h, err := AddInstrument(
		reg,
		Gauge,
		"price",
		Namespace(namespace),
		Vectors("market", "price"),
		Help("Latest AMM prices per market, in quote units"),
	)
	if err != nil {
		return err
	}
	pg, err := h.GaugeVec()
	if err != nil {
		return err
	}

	h, err = AddInstrument(
		reg,
		Gauge,
		"volatility",
		Namespace(namespace),
		Vectors("market", "source"),
		Help("Latest mark and oracle standard deviation estimates, in quote units"),
	)
	if err != nil {
		return err
	}
	vg, err := h.GaugeVec()
	if err != nil {
		return err
	}

	h, err = AddInstrument(
		reg,
		Counter,
		"updates_total",
		Namespace(namespace),
		Vectors("market", "kind", "result"),
		Help("Number of AMM updates processed"),
	)
	if err != nil {
		return err
	}
	uc, err := h.CounterVec()
	if err != nil {
		return err
	}

	h, err = AddInstrument(
		reg,
		Histogram,
		"update_seconds",
		Namespace(namespace),
		Vectors("kind"),
		Buckets([]float64{0.00001, 0.0001, 0.001, 0.01, 0.1}),
		Help("Time spent applying an AMM update"),
	)
	if err != nil {
		return err
	}
	ut, err := h.HistogramVec()
	if err != nil {
		return err
	}

	h, err = AddInstrument(
		reg,
		Counter,
		"settled_markets_total",
		Namespace(namespace),
		Help("Number of markets settled"),
	)
	if err != nil {
		return err
	}
	sc, err := h.Counter()
	if err != nil {
		return err
	}

	priceGauge, volatilityGauge, updateCounter, updateTime, settledCounter = pg, vg, uc, ut, sc
	return nil
}

// PriceGaugeSet records the latest value of a named price for a market.
func PriceGaugeSet(market, price string, v float64) {
	if priceGauge == nil {
		return
	}
	priceGauge.WithLabelValues(market, price).Set(v)
}

// VolatilityGaugeSet records the latest std estimate of a source (mark or oracle).
func VolatilityGaugeSet(market, source string, v float64) {
	if volatilityGauge == nil {
		return
	}
	volatilityGauge.WithLabelValues(market, source).Set(v)
}

// UpdateCounterInc counts an update of the given kind and its result.
func UpdateCounterInc(market, kind, result string) {
	if updateCounter == nil {
		return
	}
	updateCounter.WithLabelValues(market, kind, result).Inc()
}

// SettledMarketsInc counts a settled market.
func SettledMarketsInc() {
	if settledCounter == nil {
		return
	}
	settledCounter.Inc()
}

// StartUpdateTimer returns a func observing the time elapsed since the call.
func StartUpdateTimer(kind string) func() {
	startTime := time.Now()
	return func() {
		if updateTime == nil {
			return
		}
		updateTime.WithLabelValues(kind).Observe(time.Since(startTime).Seconds())
	}
}
