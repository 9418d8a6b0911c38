/*
Package launcher implements the bootstrap launcher of the UDS translation terminal.

The launcher checks that a Python interpreter is available, installs the
missing Python requirements of the terminal and starts it.

The project has three main source packages:
`cmd`: Main applications.
`internal`: Private application code.
`pkg`: Library code that's ok to use by external applications
*/
package launcher
