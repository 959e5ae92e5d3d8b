/*
Package pixkit is a toolbox of image utilities: resizing, cropping (including face aware cropping),
filters, watermarks, favicon sets and device mockups. The editor, colors, seo and finance
sub-packages cover the vector editor, color conversions, readability analysis and tax calculations.

The package comes with a command line interface and an HTTP server.
To check the supported commands type:

	$ pixkit --help

In case you wish to integrate the API in a self constructed environment here is a simple example:

	package main

	import (
		"fmt"
		"github.com/esimov/pixkit"
	)

	func main() {
		p := &pixkit.Processor{
			Mode:     pixkit.ModeFit,
			NewWidth: 800,
		}

		if err := p.Process(in, out); err != nil {
			fmt.Printf("Error processing image: %s", err.Error())
		}
	}
*/
package pixkit
