// Package model maps entity member names to physical column names.
//
// A Descriptor is the member map for one entity type. It is built from a
// Go struct (Describe, FromType) or from a CUE model declaration
// (CompileCUE), and is read-only once built.
//
// CUE FORMAT:
//
//	model: User: {
//	    set: "users"
//	    key: "Id"
//	    members: {
//	        Id:       {type: "int"}
//	        Name:     {type: "string", column: "user_name", length: 64}
//	        IsActive: {type: "bool", column: "is_active"}
//	    }
//	}
package model
