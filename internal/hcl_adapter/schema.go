package hcl_adapter

import "github.com/hashicorp/hcl/v2"

// fileRoot is a struct used to decode all possible top-level blocks from any file.
type fileRoot struct {
	Trainset *TrainsetBlock `hcl:"trainset,block"`
	Vehicle  *VehicleBlock  `hcl:"vehicle,block"`
	Index    *IndexBlock    `hcl:"index,block"`
	Log      *LogBlock      `hcl:"log,block"`
	Remain   hcl.Body       `hcl:",remain"`
}

// TrainsetBlock is the `trainset` block.
type TrainsetBlock struct {
	Dir *string `hcl:"dir,optional"`
}

// VehicleBlock is the `vehicle` block.
type VehicleBlock struct {
	KnownTypes []string `hcl:"known_types,optional"`
}

// IndexBlock is the `index` block.
type IndexBlock struct {
	File *string `hcl:"file,optional"`
}

// LogBlock is the `log` block.
type LogBlock struct {
	Level  *string `hcl:"level,optional"`
	Format *string `hcl:"format,optional"`
}
