package utils

import (
	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/mem"
)

// GetCPUUsage returns the CPU usage since the previous call as a percentage.
func GetCPUUsage() float64 {
	percentage, err := cpu.Percent(0, false)
	if err != nil || len(percentage) == 0 {
		return 0
	}
	return percentage[0]
}

// GetMemoryUsage returns the share of physical memory in use as a percentage.
func GetMemoryUsage() float64 {
	vm, err := mem.VirtualMemory()
	if err != nil {
		return 0
	}
	return vm.UsedPercent
}
