package cli

var ChatLoop = chatLoop

var GracefulShutdown = gracefulShutdown
