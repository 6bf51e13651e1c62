// Package autoinit runs bootstrap.Initialize against logger.Default when
// it is imported:
//
//	import _ "github.com/Philipp01105/logboot/bootstrap/autoinit"
package autoinit

import "github.com/Philipp01105/logboot/bootstrap"

func init() {
	bootstrap.Initialize()
}
