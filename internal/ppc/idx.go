package ppc

// Bus array columns.
const (
	BusI = iota
	BusType
	PD
	QD
	GS
	BS
	BusArea
	VM
	VA
	BaseKV
	Zone
	VMax
	VMin

	BusCols
)

// Bus type codes.
const (
	PQ       = 1
	PV       = 2
	Ref      = 3
	Isolated = 4
)

// Branch array columns.
const (
	FBus = iota
	TBus
	BrR
	BrX
	BrB
	RateA
	RateB
	RateC
	Tap
	Shift
	BrStatus
	AngMin
	AngMax

	BranchCols
)

// Gen array columns.
const (
	GenBus = iota
	PG
	QG
	QMax
	QMin
	VG
	MBase
	GenStatus
	PMax
	PMin

	GenCols
)
