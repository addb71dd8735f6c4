// Package schema decodes structured schema documents into AST declarations.
//
// A document is a YAML or CUE file with a top-level "decls" list. Each entry
// has exactly one key naming the declaration kind:
//
//	decls:
//	  - namespace: {scopes: [example, users]}
//	  - enum: {name: Role, members: [{id: 1, name: ADMIN}]}
//	  - message:
//	      name: User
//	      fields:
//	        - {id: 1, type: string, name: name}
//	        - {id: 2, type: "int?", name: age, optional: true}
//	  - service:
//	      name: Users
//	      version: 1
//	      body:
//	        - func: {name: get, returns: User, args: [{id: 1, type: string, name: name}]}
//	        - inherit: {all: true}
//
// Type references and literal values are written as schema text and parsed
// with ParseTypeRef and ParseLiteral. A null value means "not given".
package schema
