package constant

// AsciiArtLogo is the application's banner.
const AsciiArtLogo = `
 _         _      _    _    
| | _____ | | ___| | _| | __
| |/ / _ \| |/ _ \ |/ / |/ /
|   < (_) | |  __/   <|   < 
|_|\_\___/|_|\___|_|\_\_|\_\
`
