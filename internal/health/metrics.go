package health

import (
	"bufio"
	"context"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"syscall"
	"time"
)

// Snapshot is one reading of host vitals, logged by the heartbeat so the
// platform's log stream shows whether the box is starving.
type Snapshot struct {
	CPUPercent     float64
	RAMUsedBytes   uint64
	RAMTotalBytes  uint64
	DiskUsedBytes  uint64
	DiskTotalBytes uint64
	UptimeSeconds  int64
}

// Monitor reads vitals from /proc and the root filesystem. Off Linux the
// readings are zero, which is fine for local development.
type Monitor struct {
	diskPath string

	prevTotal uint64
	prevIdle  uint64
}

// NewMonitor creates a Monitor measuring disk usage at diskPath.
func NewMonitor(diskPath string) *Monitor {
	return &Monitor{diskPath: diskPath}
}

// Snapshot reads current vitals. CPU is the usage since the previous call,
// so the first reading reports 0.
func (m *Monitor) Snapshot() Snapshot {
	var s Snapshot
	s.CPUPercent = m.cpuDelta()
	s.RAMUsedBytes, s.RAMTotalBytes = memInfo()
	s.DiskUsedBytes, s.DiskTotalBytes = diskInfo(m.diskPath)
	s.UptimeSeconds = uptime()
	return s
}

// Heartbeat logs a snapshot every interval until ctx is cancelled.
func (m *Monitor) Heartbeat(ctx context.Context, interval time.Duration, log *slog.Logger) {
	m.Snapshot() // establish the CPU baseline
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s := m.Snapshot()
			log.Info("heartbeat",
				"cpu_percent", s.CPUPercent,
				"ram_used_bytes", s.RAMUsedBytes,
				"ram_total_bytes", s.RAMTotalBytes,
				"disk_used_bytes", s.DiskUsedBytes,
				"disk_total_bytes", s.DiskTotalBytes,
				"uptime_seconds", s.UptimeSeconds,
			)
		}
	}
}

func (m *Monitor) cpuDelta() float64 {
	total, idle, ok := cpuStat()
	if !ok {
		return 0
	}
	dTotal := total - m.prevTotal
	dIdle := idle - m.prevIdle
	m.prevTotal, m.prevIdle = total, idle
	if dTotal == 0 {
		return 0
	}
	return float64(dTotal-dIdle) / float64(dTotal) * 100.0
}

// cpuStat returns the aggregate (total, idle) jiffies from /proc/stat.
func cpuStat() (total, idle uint64, ok bool) {
	f, err := os.Open("/proc/stat")
	if err != nil {
		return 0, 0, false
	}
	defer f.Close()

	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 5 || fields[0] != "cpu" {
			continue
		}
		for i, v := range fields[1:] {
			n, err := strconv.ParseUint(v, 10, 64)
			if err != nil {
				return 0, 0, false
			}
			total += n
			if i == 3 {
				idle = n
			}
		}
		return total, idle, true
	}
	return 0, 0, false
}

func memInfo() (used, total uint64) {
	f, err := os.Open("/proc/meminfo")
	if err != nil {
		return 0, 0
	}
	defer f.Close()

	var available uint64
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) < 2 {
			continue
		}
		n, err := strconv.ParseUint(fields[1], 10, 64)
		if err != nil {
			continue
		}
		switch fields[0] {
		case "MemTotal:":
			total = n * 1024
		case "MemAvailable:":
			available = n * 1024
		}
	}
	if total > available {
		used = total - available
	}
	return used, total
}

func diskInfo(path string) (used, total uint64) {
	var st syscall.Statfs_t
	if err := syscall.Statfs(path, &st); err != nil {
		return 0, 0
	}
	total = st.Blocks * uint64(st.Bsize)
	avail := st.Bavail * uint64(st.Bsize)
	if total > avail {
		used = total - avail
	}
	return used, total
}

func uptime() int64 {
	data, err := os.ReadFile("/proc/uptime")
	if err != nil {
		return 0
	}
	fields := strings.Fields(string(data))
	if len(fields) == 0 {
		return 0
	}
	secs, err := strconv.ParseFloat(fields[0], 64)
	if err != nil {
		return 0
	}
	return int64(secs)
}
