// Package flowfile loads declarative flow definitions from HCL files and
// turns them into assembled workflows via the factory constructors.
//
// A flow file holds one or more blocks of the form
//
//	flow "relax" "si_relax" {
//	  structure      = "structures/si.json"
//	  pseudos        = ["Si.psp8"]
//	  kppa           = 1500
//	  ecut           = 20
//	  target_dilatmx = 1.01
//	}
//
// where the first label selects the builder and the second names the flow.
package flowfile
