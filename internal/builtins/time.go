package builtins

import (
	"fmt"
	"time"

	"github.com/ncruces/go-strftime"

	"clock/internal/runtime"
)

// current_time() returns RFC 3339, the same format the teacher's logger
// stamped every line with.
func currentTime(args []runtime.Value) runtime.Value {
	if len(args) != 0 {
		reportBuiltinError("current_time", fmt.Errorf("expects no arguments"))
		return runtime.Null
	}
	return runtime.Str(time.Now().Format(time.RFC3339))
}

// date_time(layout) renders the current time through a strftime-style
// layout (e.g. "%Y-%m-%d %H:%M:%S"), not Go's reference-date layout.
func dateTime(args []runtime.Value) runtime.Value {
	if len(args) != 1 || args[0].Kind != runtime.StringKind {
		reportBuiltinError("date_time", fmt.Errorf("expects (layout: string)"))
		return runtime.Null
	}
	return runtime.Str(strftime.Format(args[0].Str, time.Now()))
}

func timestamp(args []runtime.Value) runtime.Value {
	if len(args) != 0 {
		reportBuiltinError("timestamp", fmt.Errorf("expects no arguments"))
		return runtime.Null
	}
	return runtime.Int(time.Now().Unix())
}
