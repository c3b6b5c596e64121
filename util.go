package pcfg

import (
	"github.com/golang/glog"
)

// assert checks exp, if exp == false, logs and panics with err. It guards
// preconditions that only a programming error can break
func assert(exp bool, err error) {
	if !exp {
		glog.ErrorDepth(1, err)
		panic(err)
	}
}
