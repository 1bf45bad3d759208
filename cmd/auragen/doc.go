// Command auragen runs guided breathing sessions in the terminal.
//
//	auragen                    interactive session (needs a terminal)
//	auragen serve              run the script generation service
//	auragen script <location>  print a script for a location
//	auragen logs [-n N]        tail the server or client log
package main
