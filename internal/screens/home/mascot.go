package home

import (
	"time"

	"charm.land/lipgloss/v2"

	"github.com/abhisek/fjala/internal/progress"
	"github.com/abhisek/fjala/internal/ui/theme"
)

// MascotVariant selects which mascot art to display.
type MascotVariant int

const (
	MascotIdle        MascotVariant = iota // Default red
	MascotCelebrating                      // Gold, practiced today
	MascotAlert                            // Amber, streak ends tonight
)

const mascotIdle = `╭─────────╮
│  ◉   ◉  │
│    ▽    │
│ sq ⇄ en │
╰────┬────╯
     ╵`

const mascotCelebrating = `╭─────────╮
│  ★   ★  │
│    ◡    │
│ sq ⇄ en │
╰────┬────╯
   ╚═╧═╝`

const mascotAlert = `╭─────────╮
│  ◉   ◉  │ !
│    ○    │
│ sq ⇄ en │
╰────┬────╯
     ╵`

// MascotFor picks the variant for a snapshot: celebrating after practice
// today, alert when yesterday's streak is about to lapse.
func MascotFor(snap progress.Snapshot, now time.Time) MascotVariant {
	today := now.Format(time.DateOnly)
	yesterday := now.AddDate(0, 0, -1).Format(time.DateOnly)
	switch {
	case snap.LastPracticeDate == today:
		return MascotCelebrating
	case snap.Streak > 0 && snap.LastPracticeDate == yesterday:
		return MascotAlert
	}
	return MascotIdle
}

// RenderMascot returns the mascot ASCII art for the given variant.
func RenderMascot(variant ...MascotVariant) string {
	v := MascotIdle
	if len(variant) > 0 {
		v = variant[0]
	}

	var art string
	var fg = theme.Primary

	switch v {
	case MascotCelebrating:
		art = mascotCelebrating
		fg = theme.Gold
	case MascotAlert:
		art = mascotAlert
		fg = theme.Accent
	default:
		art = mascotIdle
	}

	return lipgloss.NewStyle().
		Foreground(fg).
		Render(art)
}
