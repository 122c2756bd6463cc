// Package openapi exports committed forms as an OpenAPI 3 document: one
// request schema per form under components and one POST operation that
// accepts its submissions. The same schemas can check a submission payload
// outside the engine.
package openapi
