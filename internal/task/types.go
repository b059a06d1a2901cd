package task

// Type tags a task with the kind of calculation it performs.
type Type string

const (
	TypeSCF            Type = "scf"
	TypeRelaxIon       Type = "relax_ion"
	TypeRelaxIoncell   Type = "relax_ioncell"
	TypeRelaxDilatmx   Type = "relax_dilatmx"
	TypeNSCF           Type = "nscf"
	TypeHybrid         Type = "hybrid"
	TypeDDK            Type = "ddk"
	TypeStrainPert     Type = "strain_pert"
	TypeGeneratePhonon Type = "generate_phonon"
	TypeAnaddb         Type = "anaddb"
	TypeMergeDDB       Type = "mrgddb"
	TypeFinalCleanup   Type = "final_cleanup"
	TypeDatabaseInsert Type = "db_insert"
)

// Category names a class of output files a task produces and a dependent
// task consumes.
type Category string

const (
	CategoryDEN Category = "DEN"
	CategoryWFK Category = "WFK"
	CategoryDDK Category = "DDK"
	CategoryDDB Category = "DDB"
	CategoryGSR Category = "GSR"
)

// Deps maps a producing task type to the output category the depending
// task requires from it.
type Deps map[Type]Category
