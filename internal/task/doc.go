// Package task defines the executable units wrapped into execution
// containers: one task per invocation of the ab initio code (or of a
// post-processing / bookkeeping step), carrying its calculation input, a
// task-type tag and the declared data dependencies on earlier tasks.
//
// Tasks are immutable after construction except for the working-directory
// binding, which is attached after execution and used only for result
// retrieval.
package task
