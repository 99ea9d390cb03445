package api

import (
	"github.com/sirupsen/logrus"
)

var log = logrus.WithField("module", "api")
