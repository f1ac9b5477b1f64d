package app

import (
	"errors"
	"time"

	"sparkwatch/hal"
	"sparkwatch/internal/buildinfo"
	"sparkwatch/sparkos/kernel"
	"sparkwatch/sparkos/persist"
	"sparkwatch/sparkos/proto"
	"sparkwatch/sparkos/services/appsync"
	"sparkwatch/sparkos/services/logger"
	"sparkwatch/sparkos/services/power"
	timesvc "sparkwatch/sparkos/services/time"
	"sparkwatch/sparkos/tasks/watchface"
)

const defaultShutdownTimeout = 2 * time.Second

var ErrWatchfaceExited = errors.New("watchface exited")

// Config selects watchface behavior that is not synced from the phone.
type Config struct {
	BluetoothDisplay watchface.BluetoothDisplay
	ShutdownTimeout  time.Duration
}

type system struct {
	h   hal.HAL
	k   *kernel.Kernel
	cfg Config

	ticks <-chan uint64

	shutdownReq  chan struct{}
	watchfaceEnd chan struct{}
	stopped      bool
}

// New boots the kernel, the services and the watchface on h.
func New(h hal.HAL, cfg Config) hal.Runner {
	return newSystem(h, cfg)
}

func newSystem(h hal.HAL, cfg Config) *system {
	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}
	installPanicHandler(h)

	k := kernel.New()
	s := &system{
		h:            h,
		k:            k,
		cfg:          cfg,
		shutdownReq:  make(chan struct{}),
		watchfaceEnd: make(chan struct{}),
	}
	if ht := h.Time(); ht != nil {
		s.ticks = ht.Ticks()
	}

	rw := kernel.RightSend | kernel.RightRecv
	logEP := k.NewEndpoint(rw)
	timeEP := k.NewEndpoint(rw)
	powerEP := k.NewEndpoint(rw)
	syncEP := k.NewEndpoint(rw)
	faceEP := k.NewEndpoint(rw)

	logSend := logEP.Restrict(kernel.RightSend)

	k.AddTask(logger.New(h.Logger(), logEP.Restrict(kernel.RightRecv)))
	k.AddTask(timesvc.New(h.Clock(), timeEP.Restrict(kernel.RightRecv)))
	k.AddTask(power.New(h.Power(), powerEP.Restrict(kernel.RightRecv)))
	k.AddTask(appsync.New(h.Network(), syncEP.Restrict(kernel.RightRecv), logSend))

	if l := h.Logger(); l != nil {
		l.WriteLineString("sparkwatch " + buildinfo.String())
	}

	face := watchface.New(watchface.Config{
		Display:          h.Display(),
		Clock:            h.Clock(),
		Vibe:             h.Vibe(),
		Store:            openStore(h),
		Endpoint:         faceEP,
		LogCap:           logSend,
		TimeCap:          timeEP.Restrict(kernel.RightSend),
		PowerCap:         powerEP.Restrict(kernel.RightSend),
		SyncCap:          syncEP.Restrict(kernel.RightSend),
		BluetoothDisplay: cfg.BluetoothDisplay,
	})
	k.AddTask(taskFunc(func(ctx *kernel.Context) {
		defer close(s.watchfaceEnd)
		face.Run(ctx)
	}))
	k.AddTask(taskFunc(func(ctx *kernel.Context) {
		<-s.shutdownReq
		ctx.SendToCapRetry(faceEP.Restrict(kernel.RightSend), uint16(proto.MsgAppShutdown), nil, kernel.Capability{}, 64)
	}))

	return s
}

// openStore returns nil when the flash is unusable; the face then runs with
// defaults and does not persist.
func openStore(h hal.HAL) watchface.FlagStore {
	fl := h.Flash()
	if fl == nil {
		return nil
	}
	st, err := persist.Open(fl, persist.DefaultOffset)
	if err != nil {
		if l := h.Logger(); l != nil {
			l.WriteLineString("persist: " + err.Error())
		}
		return nil
	}
	return st
}

// Step forwards pending host ticks to the kernel.
func (s *system) Step() error {
	if s.ticks != nil {
	drain:
		for {
			select {
			case seq := <-s.ticks:
				s.k.TickTo(seq)
			default:
				break drain
			}
		}
	}
	if kernel.InPanicMode() || s.stopped {
		return nil
	}
	select {
	case <-s.watchfaceEnd:
		return ErrWatchfaceExited
	default:
		return nil
	}
}

// Shutdown asks the watchface to finish, then stops the kernel.
func (s *system) Shutdown() {
	if s.stopped {
		return
	}
	s.stopped = true
	close(s.shutdownReq)

	select {
	case <-s.watchfaceEnd:
	case <-time.After(s.cfg.ShutdownTimeout):
		s.logLine("watchface did not stop in time")
	}

	s.k.Stop()
	waited := make(chan struct{})
	go func() {
		s.k.Wait()
		close(waited)
	}()
	select {
	case <-waited:
	case <-time.After(s.cfg.ShutdownTimeout):
		s.logLine("tasks still running at shutdown")
	}
}

func (s *system) logLine(line string) {
	if l := s.h.Logger(); l != nil {
		l.WriteLineString(line)
	}
}

type taskFunc func(ctx *kernel.Context)

func (f taskFunc) Run(ctx *kernel.Context) { f(ctx) }
