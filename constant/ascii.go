package constant

// AsciiArtLogo is the stylized application banner rendered on the root help screen.
const AsciiArtLogo = `
  _               _ _
 | |_ ___  _ __  (_|_)
 | __/ _ \| '__| | | |
 | || (_) | |    | | |
  \__\___/|_|    |_|_|
`
