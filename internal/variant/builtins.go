package variant

import "github.com/san-kum/vibesaver/internal/config"

func registerBuiltins(r *Registry) {
	Register(r, config.GeometryParticles, buildParticles, stepParticles)
	Register(r, config.GeometrySpheres, buildSpheres, stepSpheres)
	Register(r, config.GeometryGridWaves, buildGridWaves, stepGridWaves)
	Register(r, config.GeometryRibbonWave, buildRibbonWave, stepRibbonWave)
	Register(r, config.GeometryOrbits, buildOrbits, stepOrbits)
	Register(r, config.GeometryFireworks, buildFireworks, stepFireworks)

	Register(r, config.GeometryASCIIShell, buildASCIIShell, stepASCIIShell, TextDriven())
	Register(r, config.GeometryEmojiExplosion, buildEmojiExplosion, stepEmojiExplosion, TextDriven())
	Register(r, config.GeometryCharacterGeyser, buildCharacterGeyser, stepCharacterGeyser, TextDriven())
	Register(r, config.GeometryMatrixRain, buildMatrixRain, stepMatrixRain, TextDriven(), ExpectedCount(rainCount))

	Register(r, config.GeometryFractureRoad, buildFractureRoad, stepFractureRoad)
	Register(r, config.GeometryRocketLaunch, buildRocketLaunch, stepRocketLaunch, plus(1))
	Register(r, config.GeometryDNASpiral, buildDNASpiral, stepDNASpiral)
	Register(r, config.GeometryPolyLandscape, buildPolyLandscape, stepPolyLandscape, fixed(1))
	Register(r, config.GeometryCityLights, buildCityLights, stepCityLights)
	Register(r, config.GeometrySolarSphere, buildSolarSphere, stepSolarSphere, fixed(solarLoops+1))
	Register(r, config.GeometryLiquidField, buildLiquidField, stepLiquidField)
	Register(r, config.GeometryWarpTunnel, buildWarpTunnel, stepWarpTunnel)
	Register(r, config.GeometryVoxelFall, buildVoxelFall, stepVoxelFall)
	Register(r, config.GeometryStoneStack, buildStoneStack, stepStoneStack, fixed(stoneTotal()))
	Register(r, config.GeometryEmbers, buildEmbers, stepEmbers)
	Register(r, config.GeometryGlassRain, buildGlassRain, stepGlassRain)
	Register(r, config.GeometryNebulaCloud, buildNebulaCloud, stepNebulaCloud)

	Register(r, config.GeometryCollidingWorlds, buildCollidingWorlds, stepCollidingWorlds, CameraAmplitude(25), plus(2))
	Register(r, config.GeometrySiegeFire, buildSiegeFire, stepSiegeFire, plus(castleBlocks))
	Register(r, config.GeometryBlackHole, buildBlackHole, stepBlackHole, plus(1))
	Register(r, config.GeometryNeonCity, buildNeonCity, stepNeonCity)
	Register(r, config.GeometryBioluminescentAbyss, buildBioluminescentAbyss, stepBioluminescentAbyss)
	Register(r, config.GeometryThunderstorm, buildThunderstorm, stepThunderstorm)
	Register(r, config.GeometryCrystalGrowth, buildCrystalGrowth, stepCrystalGrowth)
	Register(r, config.GeometryTornado, buildTornado, stepTornado)
	Register(r, config.GeometryPixelSort, buildPixelSort, stepPixelSort, fixed(sortSide*sortSide))
	Register(r, config.GeometrySupernova, buildSupernova, stepSupernova)
}
