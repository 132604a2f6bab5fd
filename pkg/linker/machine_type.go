package linker

import (
	"debug/elf"

	"github.com/hcyang1106/linkres/pkg/utils"
)

type MachineType uint8

const (
	MachineTypeNone MachineType = iota
	MachineTypeRISCV64
	MachineTypeX86_64
	MachineTypeAArch64
)

func (m MachineType) String() string {
	switch m {
	case MachineTypeRISCV64:
		return "riscv64"
	case MachineTypeX86_64:
		return "x86_64"
	case MachineTypeAArch64:
		return "aarch64"
	}
	return "none"
}

// emulation names as passed to -m
func GetMachineTypeFromEmulation(emulation string) MachineType {
	switch emulation {
	case "elf64lriscv":
		return MachineTypeRISCV64
	case "elf_x86_64":
		return MachineTypeX86_64
	case "aarch64linux", "aarch64elf":
		return MachineTypeAArch64
	}
	return MachineTypeNone
}

func GetMachineTypeFromContent(content []byte) MachineType {
	if GetFileTypeFromContent(content) != FileTypeObject {
		return MachineTypeNone
	}
	if elf.Class(content[elf.EI_CLASS]) != elf.ELFCLASS64 ||
		elf.Data(content[elf.EI_DATA]) != elf.ELFDATA2LSB {
		return MachineTypeNone
	}

	var machineType uint16
	if utils.Read[uint16](content[18:], &machineType) != nil {
		return MachineTypeNone
	}
	switch elf.Machine(machineType) {
	case elf.EM_RISCV:
		return MachineTypeRISCV64
	case elf.EM_X86_64:
		return MachineTypeX86_64
	case elf.EM_AARCH64:
		return MachineTypeAArch64
	}

	return MachineTypeNone
}
