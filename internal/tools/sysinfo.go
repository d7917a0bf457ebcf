package tools

import (
	"context"
	"fmt"
	"math"

	"github.com/google/jsonschema-go/jsonschema"
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/khoslan/toolbox"
)

// SystemInfo reports host platform, uptime and memory statistics. It
// mutates nothing; a failed host query is unexpected and surfaces as a
// plain error rather than a modeled failure.
type SystemInfo struct{}

// NewSystemInfo creates the host statistics tool.
func NewSystemInfo() *SystemInfo {
	return &SystemInfo{}
}

func (s *SystemInfo) Name() string {
	return "system_info"
}

func (s *SystemInfo) Description() string {
	return "Returns host platform, uptime, memory and CPU statistics"
}

func (s *SystemInfo) InputSchema() *jsonschema.Schema {
	return &jsonschema.Schema{
		Type: "object",
		Properties: map[string]*jsonschema.Schema{
			"detail": {
				Type:        "string",
				Enum:        []any{"basic", "full"},
				Description: "Level of detail to report (default: basic)",
			},
		},
	}
}

type memoryStats struct {
	Total uint64 `json:"total"`
	Free  uint64 `json:"free"`
	Used  uint64 `json:"used"`
}

type systemReport struct {
	Platform     string      `json:"platform"`
	Architecture string      `json:"architecture"`
	Uptime       uint64      `json:"uptime"`
	Memory       memoryStats `json:"memory"`
	CPUCount     int         `json:"cpuCount,omitempty"`
	CPUModel     string      `json:"cpuModel,omitempty"`
	CPUSpeedMHz  float64     `json:"cpuSpeedMHz,omitempty"`
}

func (s *SystemInfo) Call(ctx context.Context, args map[string]any) (*toolbox.Result, error) {
	detail := "basic"
	if v, ok := args["detail"].(string); ok && v != "" {
		detail = v
	}
	if detail != "basic" && detail != "full" {
		return toolbox.Fail(fmt.Sprintf("unknown detail level: %q", detail)), nil
	}

	info, err := host.InfoWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query host info: %w", err)
	}
	vm, err := mem.VirtualMemoryWithContext(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to query memory stats: %w", err)
	}

	report := systemReport{
		Platform:     info.OS,
		Architecture: info.KernelArch,
		Uptime:       info.Uptime,
		Memory: memoryStats{
			Total: toMegabytes(vm.Total),
			Free:  toMegabytes(vm.Free),
			Used:  toMegabytes(vm.Used),
		},
	}

	if detail == "full" {
		count, err := cpu.CountsWithContext(ctx, true)
		if err != nil {
			return nil, fmt.Errorf("failed to query CPU count: %w", err)
		}
		report.CPUCount = count

		cpus, err := cpu.InfoWithContext(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to query CPU info: %w", err)
		}
		if len(cpus) > 0 {
			report.CPUModel = cpus[0].ModelName
			report.CPUSpeedMHz = cpus[0].Mhz
		}
	}

	return toolbox.Ok(report), nil
}

// toMegabytes converts bytes to whole megabytes, rounded to nearest.
func toMegabytes(bytes uint64) uint64 {
	return uint64(math.Round(float64(bytes) / (1024 * 1024)))
}
