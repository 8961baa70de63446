// Package queue moves OTP email delivery off the request path.
package queue

import (
	"context"
	"errors"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/eductrack/eductrack-api/internal/core/ports"
	"github.com/eductrack/eductrack-api/internal/metrics"
)

const (
	defaultWorkers     = 4
	defaultBuffer      = 256
	defaultSendTimeout = 30 * time.Second
)

// ErrQueueFull is returned by SendOTP when the worker owning the recipient
// has no free buffer slot.
var ErrQueueFull = errors.New("mail queue full")

type Options struct {
	Workers     int
	Buffer      int
	SendTimeout time.Duration
}

type mailJob struct {
	to   string
	code string
	role string
}

// MailDispatcher routes OTP emails to a fixed set of workers using
// consistent hashing on the recipient, so codes for one address are sent in
// the order they were issued. It satisfies ports.OTPMailer itself and can be
// handed to the OTP service in place of the provider.
type MailDispatcher struct {
	workers     []chan mailJob
	mailer      ports.OTPMailer
	provider    string
	sendTimeout time.Duration
	log         zerolog.Logger
	wg          sync.WaitGroup
}

func NewMailDispatcher(mailer ports.OTPMailer, provider string, log zerolog.Logger, opts Options) *MailDispatcher {
	if opts.Workers <= 0 {
		opts.Workers = defaultWorkers
	}
	if opts.Buffer <= 0 {
		opts.Buffer = defaultBuffer
	}
	if opts.SendTimeout <= 0 {
		opts.SendTimeout = defaultSendTimeout
	}

	d := &MailDispatcher{
		workers:     make([]chan mailJob, opts.Workers),
		mailer:      mailer,
		provider:    provider,
		sendTimeout: opts.SendTimeout,
		log:         log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan mailJob, opts.Buffer)
	}
	return d
}

// Start launches the workers. They stop when ctx is cancelled; Wait blocks
// until all of them have returned.
func (d *MailDispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *MailDispatcher) Wait() {
	d.wg.Wait()
}

// SendOTP enqueues the email and returns immediately. The request context is
// not carried over: delivery outlives the HTTP request.
func (d *MailDispatcher) SendOTP(_ context.Context, to, code, role string) error {
	idx := d.shardIndex(to)
	select {
	case d.workers[idx] <- mailJob{to: to, code: code, role: role}:
		metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
		return nil
	default:
		metrics.OTPDispatchErrorsTotal.WithLabelValues("queue").Inc()
		return ErrQueueFull
	}
}

// shardIndex maps a recipient deterministically to a worker index.
func (d *MailDispatcher) shardIndex(to string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(to))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *MailDispatcher) runWorker(ctx context.Context, id int, ch <-chan mailJob) {
	defer d.wg.Done()
	depth := metrics.MailQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			return
		case job := <-ch:
			depth.Set(float64(len(ch)))
			d.deliver(ctx, id, job)
		}
	}
}

func (d *MailDispatcher) deliver(ctx context.Context, worker int, job mailJob) {
	sendCtx, cancel := context.WithTimeout(ctx, d.sendTimeout)
	defer cancel()

	start := time.Now()
	err := d.mailer.SendOTP(sendCtx, job.to, job.code, job.role)
	metrics.MailDispatchDuration.WithLabelValues(d.provider).Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.OTPDispatchErrorsTotal.WithLabelValues(d.provider).Inc()
		d.log.Error().Err(err).
			Str("email", job.to).
			Str("provider", d.provider).
			Int("worker_id", worker).
			Msg("otp email delivery failed")
	}
}
