package model

// Version is the released version of habstudio.
const Version = "0.3.0"
