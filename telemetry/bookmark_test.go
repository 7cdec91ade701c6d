package telemetry

import (
	"testing"
)

var testThresholds = BookmarkThresholds{CrashDrop: 0.3, BoomBirthFactor: 2.0}

func hasBookmark(bookmarks []Bookmark, typ BookmarkType) bool {
	for _, bm := range bookmarks {
		if bm.Type == typ {
			return true
		}
	}
	return false
}

func TestBookmarkDetector_PopulationCrash(t *testing.T) {
	bd := NewBookmarkDetector(10, testThresholds)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), Population: 100})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Population: 50})
	if !hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("expected population_crash bookmark")
	}

	// The peak resets, so a steady low population does not fire again.
	bookmarks = bd.Check(WindowStats{WindowEndTick: 3600, Population: 50})
	if hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("crash fired twice for the same drop")
	}
}

func TestBookmarkDetector_SmallDropIgnored(t *testing.T) {
	bd := NewBookmarkDetector(10, testThresholds)
	bd.Check(WindowStats{Population: 20})

	// 50% but only 10 rabbits.
	bookmarks := bd.Check(WindowStats{Population: 10})
	if hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("unexpected crash for a small absolute drop")
	}
}

func TestBookmarkDetector_ExtinctionOnce(t *testing.T) {
	bd := NewBookmarkDetector(10, testThresholds)
	bd.Check(WindowStats{Population: 40})

	bookmarks := bd.Check(WindowStats{Population: 0})
	if !hasBookmark(bookmarks, BookmarkExtinction) {
		t.Fatal("expected extinction bookmark")
	}
	if hasBookmark(bookmarks, BookmarkPopulationCrash) {
		t.Error("extinction should replace the crash bookmark")
	}

	bookmarks = bd.Check(WindowStats{Population: 0})
	if hasBookmark(bookmarks, BookmarkExtinction) {
		t.Error("extinction fired twice")
	}
}

func TestBookmarkDetector_EmptyStartIsNotExtinction(t *testing.T) {
	bd := NewBookmarkDetector(10, testThresholds)
	if bookmarks := bd.Check(WindowStats{Population: 0}); len(bookmarks) != 0 {
		t.Errorf("got %v for a world that never had rabbits", bookmarks)
	}
}

func TestBookmarkDetector_BabyBoom(t *testing.T) {
	bd := NewBookmarkDetector(10, testThresholds)

	for i := 0; i < 5; i++ {
		bd.Check(WindowStats{WindowEndTick: int32(i * 600), Population: 100, Births: 4})
	}

	bookmarks := bd.Check(WindowStats{WindowEndTick: 3000, Population: 120, Births: 20})
	if !hasBookmark(bookmarks, BookmarkBabyBoom) {
		t.Error("expected baby_boom bookmark")
	}
}
