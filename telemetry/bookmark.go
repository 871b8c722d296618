package telemetry

import (
	"fmt"
	"log/slog"
)

// BookmarkType identifies the type of bookmark.
type BookmarkType string

const (
	BookmarkEnergySpike     BookmarkType = "energy_spike"
	BookmarkCollisionBurst  BookmarkType = "collision_burst"
	BookmarkDeepPenetration BookmarkType = "deep_penetration"
	BookmarkSettled         BookmarkType = "settled"
)

// DeepPenetration is the pair depth that raises a deep_penetration bookmark.
const DeepPenetration = 8.0

// Bookmark represents an automatically triggered bookmark.
type Bookmark struct {
	Type        BookmarkType `csv:"type"`
	Tick        int32        `csv:"tick"`
	Description string       `csv:"description"`
}

// LogBookmark logs the bookmark using slog.
func (b Bookmark) LogBookmark() {
	slog.Info("bookmark",
		"type", string(b.Type),
		"tick", b.Tick,
		"description", b.Description,
	)
}

// BookmarkDetector detects interesting moments in the simulation: solver
// blow-ups, pile-ups and scenes coming to rest.
type BookmarkDetector struct {
	// Rolling history (circular buffer)
	history     []WindowStats
	historySize int
	historyIdx  int
	historyFull bool

	deep    bool // a deep_penetration bookmark is active
	settled bool // a settled bookmark is active
}

// NewBookmarkDetector creates a detector with the given history size.
func NewBookmarkDetector(historySize int) *BookmarkDetector {
	if historySize < 3 {
		historySize = 3
	}
	return &BookmarkDetector{
		history:     make([]WindowStats, historySize),
		historySize: historySize,
	}
}

// Check analyzes the latest stats and returns any triggered bookmarks.
func (bd *BookmarkDetector) Check(stats WindowStats) []Bookmark {
	var bookmarks []Bookmark

	if b := bd.checkEnergySpike(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkCollisionBurst(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkDeepPenetration(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}
	if b := bd.checkSettled(stats); b != nil {
		bookmarks = append(bookmarks, *b)
	}

	bd.addToHistory(stats)
	return bookmarks
}

func (bd *BookmarkDetector) addToHistory(stats WindowStats) {
	bd.history[bd.historyIdx] = stats
	bd.historyIdx = (bd.historyIdx + 1) % bd.historySize
	if bd.historyIdx == 0 {
		bd.historyFull = true
	}
}

func (bd *BookmarkDetector) getHistory() []WindowStats {
	if bd.historyFull {
		return bd.history
	}
	return bd.history[:bd.historyIdx]
}

// checkEnergySpike fires when kinetic energy jumps past 3x the rolling
// average without any bodies being added.
func (bd *BookmarkDetector) checkEnergySpike(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 || stats.Added > 0 {
		return nil
	}

	var total float64
	for _, h := range history {
		total += h.KineticEnergy
	}
	avg := total / float64(len(history))
	if avg <= 1 {
		return nil
	}

	if stats.KineticEnergy > avg*3 {
		return &Bookmark{
			Type:        BookmarkEnergySpike,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("Kinetic energy %.0f is %.1fx average (%.0f)", stats.KineticEnergy, stats.KineticEnergy/avg, avg),
		}
	}
	return nil
}

func (bd *BookmarkDetector) checkCollisionBurst(stats WindowStats) *Bookmark {
	history := bd.getHistory()
	if len(history) < 3 {
		return nil
	}

	var total int
	for _, h := range history {
		total += h.CollisionStarts
	}
	avg := float64(total) / float64(len(history))

	if stats.CollisionStarts >= 20 && float64(stats.CollisionStarts) > avg*3 {
		return &Bookmark{
			Type:        BookmarkCollisionBurst,
			Tick:        stats.WindowEndTick,
			Description: fmt.Sprintf("%d collisions started, average %.1f", stats.CollisionStarts, avg),
		}
	}
	return nil
}

// checkDeepPenetration fires once per excursion above DeepPenetration.
func (bd *BookmarkDetector) checkDeepPenetration(stats WindowStats) *Bookmark {
	if stats.MaxDepth <= DeepPenetration {
		bd.deep = false
		return nil
	}
	if bd.deep {
		return nil
	}
	bd.deep = true
	return &Bookmark{
		Type:        BookmarkDeepPenetration,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("Pair depth %.2f across %d pairs", stats.MaxDepth, stats.Pairs),
	}
}

// checkSettled fires when every dynamic body comes to rest, and re-arms
// once something moves again.
func (bd *BookmarkDetector) checkSettled(stats WindowStats) *Bookmark {
	if stats.Dynamic == 0 || stats.Resting < stats.Dynamic {
		bd.settled = false
		return nil
	}
	if bd.settled {
		return nil
	}
	bd.settled = true
	return &Bookmark{
		Type:        BookmarkSettled,
		Tick:        stats.WindowEndTick,
		Description: fmt.Sprintf("All %d dynamic bodies at rest, %d contacts", stats.Dynamic, stats.Contacts),
	}
}
