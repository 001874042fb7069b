package collaborator

import (
	"log/slog"
	"time"

	c "lautenbacher.net/lovebox/config"
	u "lautenbacher.net/lovebox/util"
)

// Display is the part of the platform the DisplayCollaborator drives.
type Display interface {
	LightSensor
	Screen
}

// DisplayCollaborator switches the screen depending on the ambient
// light and shows new messages. The photoresistor sits next to the
// screen, so the screen is switched off for every sample.
type DisplayCollaborator struct {
	*AbstractCollaborator
	display     Display
	threshold   int
	interval    time.Duration
	settleDelay time.Duration
	message     *u.AtomicEvent[string]
	history     *History
	screenOn    *u.AtomicEvent[bool]
}

func NewDisplayCollaborator(uid string, settings c.Settings, sensorConf c.LightSensorConfig, display Display, message *u.AtomicEvent[string]) *DisplayCollaborator {
	inst := &DisplayCollaborator{
		display:     display,
		threshold:   settings.LightValueThreshold(),
		interval:    settings.BrightnessCheckInterval(),
		settleDelay: sensorConf.SettleDelay,
		message:     message,
		history:     NewHistory(sensorConf.HistorySize),
		screenOn:    u.NewAtomicEvent[bool](),
	}
	inst.AbstractCollaborator = NewAbstractCollaborator(uid, inst.runner)
	return inst
}

func (s *DisplayCollaborator) History() *History {
	return s.history
}

// ScreenOn reports the state the collaborator last switched the screen to.
func (s *DisplayCollaborator) ScreenOn() bool {
	return s.screenOn.Value()
}

func (s *DisplayCollaborator) runner(stop <-chan struct{}) {
	slog.Info("Checking brightness", "uid", s.uid, "interval", s.interval, "threshold", s.threshold)
	s.checkBrightness(stop)

	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-stop:
			slog.Info("Ending display go-routine", "uid", s.uid)
			return
		case <-ticker.C:
			s.checkBrightness(stop)
		case <-s.message.Channel():
			if err := s.display.ShowMessage(s.message.Value()); err != nil {
				slog.Error("Showing message failed", "uid", s.uid, "error", err)
			}
		}
	}
}

// checkBrightness samples the light with the screen off and switches
// the screen on iff the value is above the threshold.
func (s *DisplayCollaborator) checkBrightness(stop <-chan struct{}) {
	wasOn := s.screenOn.Value()
	if err := s.display.SetScreen(false); err != nil {
		slog.Error("Switching screen off failed", "uid", s.uid, "error", err)
		return
	}

	if s.settleDelay > 0 {
		select {
		case <-stop:
			return
		case <-time.After(s.settleDelay):
		}
	}

	value, err := s.display.ReadLight()
	if err != nil {
		slog.Error("Reading light sensor failed", "uid", s.uid, "error", err)
		s.setScreen(wasOn)
		return
	}
	s.history.Add(u.NewReading(value, time.Now()))

	on := value > s.threshold
	if on != wasOn {
		slog.Info("Switching screen", "uid", s.uid, "on", on, "light", value, "threshold", s.threshold)
	} else {
		slog.Debug("Brightness checked", "uid", s.uid, "light", value, "on", on)
	}
	s.setScreen(on)
}

func (s *DisplayCollaborator) setScreen(on bool) {
	if err := s.display.SetScreen(on); err != nil {
		slog.Error("Switching screen failed", "uid", s.uid, "on", on, "error", err)
		return
	}
	s.screenOn.Send(on)
}
