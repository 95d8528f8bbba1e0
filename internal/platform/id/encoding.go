package id

import "encoding/base32"

var base32Encoding = base32.StdEncoding.WithPadding(base32.NoPadding)
