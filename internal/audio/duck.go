package audio

import (
	"context"
	"fmt"
	"math"
	"os/exec"
	"regexp"
	"strconv"
	"strings"
	"sync"
	"time"
)

var percentRe = regexp.MustCompile(`(\d+)\s*%`)

type sinkInput struct {
	id      int
	volume  int
	appName string
}

// Ducker fades other applications' playback down while a command is being
// captured and restores it afterwards. It drives PulseAudio through pactl.
type Ducker struct {
	Factor float64       // target = current * Factor
	Floor  int           // never duck below this percentage
	Fade   time.Duration // fade length in both directions

	mu       sync.Mutex
	self     []string
	original map[int]int // sink input id -> volume before ducking
}

func NewDucker(selfNames []string) *Ducker {
	return &Ducker{
		Factor: 0.3,
		Floor:  5,
		Fade:   200 * time.Millisecond,
		self:   append([]string(nil), selfNames...),
	}
}

func (d *Ducker) Duck(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.original != nil {
		return nil
	}

	inputs, err := listSinkInputs(ctx)
	if err != nil {
		return err
	}

	d.original = make(map[int]int)
	var fades []fade
	for _, in := range inputs {
		if d.isSelf(in) {
			continue
		}
		to := int(math.Round(float64(in.volume) * d.Factor))
		to = max(d.Floor, min(to, 150))
		d.original[in.id] = in.volume
		fades = append(fades, fade{id: in.id, from: in.volume, to: to})
	}

	return runFades(ctx, fades, d.Fade)
}

func (d *Ducker) Unduck(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.original == nil {
		return nil
	}
	defer func() { d.original = nil }()

	inputs, err := listSinkInputs(ctx)
	if err != nil {
		return err
	}

	var fades []fade
	for _, in := range inputs {
		// inputs that appeared after ducking are left alone
		if orig, ok := d.original[in.id]; ok {
			fades = append(fades, fade{id: in.id, from: in.volume, to: orig})
		}
	}

	return runFades(ctx, fades, d.Fade)
}

func (d *Ducker) isSelf(in sinkInput) bool {
	for _, name := range d.self {
		if in.appName == name {
			return true
		}
	}
	return false
}

type fade struct {
	id, from, to int
}

func runFades(ctx context.Context, fades []fade, total time.Duration) error {
	if len(fades) == 0 {
		return nil
	}

	const step = 10 * time.Millisecond
	steps := max(1, int(total/step))

	for i := 1; i <= steps; i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		frac := float64(i) / float64(steps)
		for _, f := range fades {
			v := int(math.Round(float64(f.from) + float64(f.to-f.from)*frac))
			if err := setVolume(ctx, f.id, v); err != nil {
				return fmt.Errorf("set volume id=%d: %w", f.id, err)
			}
		}
		if i < steps {
			time.Sleep(total / time.Duration(steps))
		}
	}

	return nil
}

func listSinkInputs(ctx context.Context) ([]sinkInput, error) {
	out, err := exec.CommandContext(ctx, "pactl", "list", "sink-inputs").Output()
	if err != nil {
		return nil, fmt.Errorf("pactl list sink-inputs: %w", err)
	}
	return parseSinkInputs(string(out)), nil
}

// parseSinkInputs reads `pactl list sink-inputs` output.
func parseSinkInputs(text string) []sinkInput {
	blocks := strings.Split(text, "Sink Input #")
	var res []sinkInput

	for _, block := range blocks[1:] {
		header, body, _ := strings.Cut(block, "\n")
		id, err := strconv.Atoi(strings.TrimSpace(header))
		if err != nil {
			continue
		}

		in := sinkInput{id: id, volume: -1}
		for _, line := range strings.Split(body, "\n") {
			line = strings.TrimSpace(line)

			if strings.HasPrefix(line, "Volume:") && in.volume < 0 {
				if m := percentRe.FindStringSubmatch(line); m != nil {
					in.volume, _ = strconv.Atoi(m[1])
				}
			}
			if name, ok := strings.CutPrefix(line, "application.name = "); ok && in.appName == "" {
				in.appName = strings.Trim(name, `"`)
			}
		}

		if in.volume < 0 {
			continue
		}
		res = append(res, in)
	}

	return res
}

func setVolume(ctx context.Context, id, percent int) error {
	percent = max(0, min(percent, 150))
	return exec.CommandContext(ctx, "pactl", "set-sink-input-volume",
		strconv.Itoa(id), fmt.Sprintf("%d%%", percent)).Run()
}
