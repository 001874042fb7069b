package platform

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"syscall"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"

	"lautenbacher.net/lovebox/config"
	"lautenbacher.net/lovebox/logging"
	u "lautenbacher.net/lovebox/util"
)

const (
	// MCP3008 resolution
	maxLightValue = 1023
	lightStep     = 5
	initialLight  = 100
)

type TUIPlatform struct {
	*AbstractPlatform
	tviewapp     *tview.Application
	intro        *tview.TextView
	screenView   *tview.TextView
	statusView   *tview.TextView
	logView      *tview.TextView
	ossignalChan chan os.Signal
	logFlushOnce sync.Once
	// Guards light
	lightMutex sync.Mutex
	light      int
}

func NewTUIPlatform(conf *config.Config, ossignalchan chan os.Signal) *TUIPlatform {
	return &TUIPlatform{
		AbstractPlatform: newAbstractPlatform(conf),
		ossignalChan:     ossignalchan,
		light:            initialLight,
	}
}

func (s *TUIPlatform) Start() error {
	s.initSimulationTUI()
	return nil
}

func (s *TUIPlatform) Stop() {
	s.setInShutdown()
	if s.tviewapp != nil {
		s.tviewapp.Stop()
	}
}

// ReadLight returns the light value set with the +/- keys.
func (s *TUIPlatform) ReadLight() (int, error) {
	if s.inShutdown() {
		return 0, ErrNotRunning
	}
	s.lightMutex.Lock()
	value := s.light
	s.lightMutex.Unlock()

	s.recordLight(value)
	s.redraw()
	return value, nil
}

func (s *TUIPlatform) SetScreen(on bool) error {
	if s.inShutdown() {
		return ErrNotRunning
	}
	s.recordScreen(on)
	s.redraw()
	return nil
}

func (s *TUIPlatform) ShowMessage(msg string) error {
	if s.inShutdown() {
		return ErrNotRunning
	}
	s.recordMessage(msg)
	s.redraw()
	return nil
}

func (s *TUIPlatform) SetServo(degrees int) error {
	if s.inShutdown() {
		return ErrNotRunning
	}
	s.recordServo(clampDegrees(degrees))
	s.redraw()
	return nil
}

func (s *TUIPlatform) changeLight(delta int) {
	s.lightMutex.Lock()
	s.light = u.Clamp(s.light+delta, 0, maxLightValue)
	s.lightMutex.Unlock()
	s.intro.SetText(s.getIntroText())
}

func (s *TUIPlatform) simulatedLight() int {
	s.lightMutex.Lock()
	defer s.lightMutex.Unlock()
	return s.light
}

// redraw queues an update of the screen and status panes. It must not
// be called from the TUI's main thread.
func (s *TUIPlatform) redraw() {
	if s.tviewapp == nil || s.inShutdown() {
		return
	}
	state := s.State()
	threshold := s.config.Settings().LightValueThreshold()
	s.tviewapp.QueueUpdateDraw(func() {
		s.screenView.SetText(renderScreen(state))
		s.statusView.SetText(renderStatus(state, threshold))
	})
}

// getIntroText generates the dynamic text for the top info pane.
func (s *TUIPlatform) getIntroText() string {
	line1 := fmt.Sprintf("Simulated light: [#ffff00]%-4d[white] | Threshold: %d | Hit [#ff0000]+[white]/[#ff0000]-[white] to change",
		s.simulatedLight(), s.config.Settings().LightValueThreshold())
	line2 := "Hit [#ff0000]q[-] to exit, [#ff0000]r[-] to reload, [#ff0000]Up/Down[-] to scroll logs"
	return fmt.Sprintf("%s\n%s", line1, line2)
}

func (s *TUIPlatform) initSimulationTUI() {
	s.tviewapp = tview.NewApplication()

	// --- Intro Pane ---
	s.intro = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	s.intro.SetText(s.getIntroText())
	s.intro.SetBorder(true).SetTitle(" LOVEBOX Simulation ").SetTitleColor(tcell.ColorLightBlue)
	s.intro.SetBackgroundColor(tcell.NewRGBColor(20, 20, 20))

	// --- Screen Pane ---
	s.screenView = tview.NewTextView().
		SetDynamicColors(true).
		SetWrap(true).
		SetTextAlign(tview.AlignCenter)
	s.screenView.SetBorder(true).SetTitle(" Screen ").SetTitleColor(tcell.ColorLightBlue)
	s.screenView.SetBackgroundColor(tcell.NewRGBColor(30, 30, 30))
	s.screenView.SetText(renderScreen(s.State()))

	// --- Status Pane ---
	s.statusView = tview.NewTextView().
		SetDynamicColors(true)
	s.statusView.SetBorder(true).SetTitle(" Status ").SetTitleColor(tcell.ColorLightBlue)
	s.statusView.SetBackgroundColor(tcell.NewRGBColor(30, 30, 30))
	s.statusView.SetText(renderStatus(s.State(), s.config.Settings().LightValueThreshold()))

	// --- Log Pane ---
	s.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetChangedFunc(func() {
			s.logView.ScrollToEnd()
			s.tviewapp.Draw()
		})
	s.logView.SetBorder(true).SetTitle(" Logs ").SetTitleColor(tcell.ColorLightBlue)
	s.logView.SetBackgroundColor(tcell.NewRGBColor(40, 40, 40))

	// --- Layout ---
	device := tview.NewFlex().SetDirection(tview.FlexColumn).
		AddItem(s.screenView, 0, 2, false).
		AddItem(s.statusView, 34, 0, false)

	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.intro, 4, 0, false).
		AddItem(device, 8, 0, false).
		AddItem(s.logView, 0, 1, true)

	// --- Flush logs after first draw ---
	s.tviewapp.SetAfterDrawFunc(func(screen tcell.Screen) {
		s.logFlushOnce.Do(func() {
			logWriter := tview.ANSIWriter(s.logView)
			if err := logging.SetOutput(logWriter); err != nil {
				slog.Error("Failed to flush buffered logs", "error", err)
			}
			s.setReady()
		})
	})

	// --- Input Handling ---
	s.tviewapp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			s.ossignalChan <- os.Interrupt
			return nil
		case tcell.KeyRune:
			switch event.Rune() {
			case 'q', 'Q':
				s.ossignalChan <- os.Interrupt
				return nil
			case 'r', 'R':
				s.ossignalChan <- syscall.SIGHUP
				return nil
			case '+':
				s.changeLight(lightStep)
				return nil
			case '-':
				s.changeLight(-lightStep)
				return nil
			}
		case tcell.KeyUp:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row-1, col)
			return nil
		case tcell.KeyDown:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row+1, col)
			return nil
		}
		return event
	})

	// --- Start TUI ---
	go func() {
		if err := s.tviewapp.SetRoot(layout, true).Run(); err != nil {
			slog.Error("Error running TUI", "error", err)
			s.ossignalChan <- os.Interrupt
		}
	}()
}

// renderScreen draws the simulated panel.
func renderScreen(state State) string {
	if !state.ScreenOn {
		return "\n[#505050]screen off[-]"
	}
	if state.Message == "" {
		return "\n[#a0a0a0]no message yet[-]"
	}
	return "\n[white]" + tview.Escape(state.Message) + "[-]"
}

// renderStatus draws the status pane.
func renderStatus(state State, threshold int) string {
	var buf strings.Builder

	screen := "[#ff0000]off[-]"
	if state.ScreenOn {
		screen = "[#00ff00]on[-]"
	}
	fmt.Fprintf(&buf, " [yellow]Screen:[-]    %s\n", screen)

	if state.Light.Timestamp.IsZero() {
		fmt.Fprintf(&buf, " [yellow]Light:[-]     -- (threshold %d)\n", threshold)
	} else {
		fmt.Fprintf(&buf, " [yellow]Light:[-]     %d (threshold %d) at %s\n",
			state.Light.Value, threshold, state.Light.Timestamp.Format("15:04:05"))
	}

	if state.ServoPosition < 0 {
		buf.WriteString(" [yellow]Servo:[-]     --\n")
	} else {
		fmt.Fprintf(&buf, " [yellow]Servo:[-]     %3d° [#ff3070]%s[-]\n", state.ServoPosition, heartGlyph(state.ServoPosition))
	}
	return buf.String()
}

// heartGlyph shows the tilt of the heart for an angle.
func heartGlyph(degrees int) string {
	switch {
	case degrees < 60:
		return "/♥"
	case degrees > 120:
		return "♥\\"
	default:
		return "|♥|"
	}
}
