package system

import (
	"fmt"
	"image"

	"github.com/shirou/gopsutil/v3/mem"
)

// ScanFootprint estimates the peak bytes one scan of a w×h page needs: the
// NRGBA pixel copy, the visited mask, and a traversal stack that in the worst
// case holds about three pending neighbours per pixel.
func ScanFootprint(w, h int) uint64 {
	n := uint64(w) * uint64(h)
	pixels := n * 4
	mask := n
	stack := n * 3 * uint64(16) // image.Point on 64-bit
	return pixels + mask + stack
}

// CheckScanMemory compares the footprint of scanning rect, times the number of
// concurrent scans, against the memory the host reports as available.
func CheckScanMemory(rect image.Rectangle, concurrent int) error {
	need := ScanFootprint(rect.Dx(), rect.Dy()) * uint64(max(concurrent, 1))

	vm, err := mem.VirtualMemory()
	if err != nil {
		return fmt.Errorf("ошибка запроса памяти: %w", err)
	}
	if need > vm.Available {
		return fmt.Errorf("сканирование %dx%d может потребовать %s, доступно только %s",
			rect.Dx(), rect.Dy(), FormatBytes(need), FormatBytes(vm.Available))
	}
	return nil
}

// HostMemory returns a one-line summary of host memory for reports.
func HostMemory() string {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return "unknown"
	}
	return fmt.Sprintf("%s used of %s (%.1f%%)", FormatBytes(vm.Used), FormatBytes(vm.Total), vm.UsedPercent)
}

func FormatBytes(b uint64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%d B", b)
	}
	div, exp := uint64(unit), 0
	for n := b / unit; n >= unit; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(b)/float64(div), "KMGTPE"[exp])
}
