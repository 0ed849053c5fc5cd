package notifier

import "errors"

var errModuleNotInitialised = errors.New("notifier: module not initialised")
